// Package store holds the validated in-memory point collection that all
// analysis stages read from and annotate.
package store

import (
	"iter"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/terralith/sitepoint-cli/internal/ingest"
	"github.com/terralith/sitepoint-cli/internal/model"
)

// LoadOptions controls how malformed input records are handled.
type LoadOptions struct {
	// Strict aborts the load on the first malformed record instead of
	// recording it in the skipped set.
	Strict bool
}

// Skipped describes one input record rejected during load.
type Skipped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Store is an ordered, id-indexed point collection. Points are created
// once at load and never removed; insertion order is preserved for
// deterministic iteration and export. Annotations are committed
// whole-store per field, never partially.
type Store struct {
	points  []model.Point
	index   map[string]int
	skipped []Skipped
}

// Load parses input features into a validated store. Records without a
// usable coordinate pair are malformed: with Strict they abort the load
// with their source index; otherwise they are recorded in the skipped
// set and reported, not silently dropped. Features without an id get a
// generated one.
func Load(features []ingest.Feature, opts LoadOptions) (*Store, error) {
	s := &Store{
		points: make([]model.Point, 0, len(features)),
		index:  make(map[string]int, len(features)),
	}

	for i, f := range features {
		if !f.HasCoords {
			if opts.Strict {
				return nil, eris.Wrapf(model.ErrMalformedRecord, "store: record %d has no usable geometry", i)
			}
			s.skipped = append(s.skipped, Skipped{Index: i, Reason: "missing or non-numeric coordinates"})
			continue
		}

		id := f.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, dup := s.index[id]; dup {
			if opts.Strict {
				return nil, eris.Wrapf(model.ErrMalformedRecord, "store: record %d reuses id %q", i, id)
			}
			s.skipped = append(s.skipped, Skipped{Index: i, Reason: "duplicate id " + id})
			continue
		}

		s.index[id] = len(s.points)
		s.points = append(s.points, model.Point{
			ID:         id,
			Lon:        f.Lon,
			Lat:        f.Lat,
			Attributes: f.Properties,
		})
	}

	if len(s.skipped) > 0 {
		zap.L().Warn("store: skipped malformed records",
			zap.Int("skipped", len(s.skipped)),
			zap.Int("loaded", len(s.points)),
		)
	}
	return s, nil
}

// Get returns the point with the given id.
func (s *Store) Get(id string) (model.Point, error) {
	i, ok := s.index[id]
	if !ok {
		return model.Point{}, eris.Wrapf(model.ErrNotFound, "store: id %q", id)
	}
	return s.points[i], nil
}

// All iterates points in insertion order. The sequence is restartable.
func (s *Store) All() iter.Seq[model.Point] {
	return func(yield func(model.Point) bool) {
		for _, p := range s.points {
			if !yield(p) {
				return
			}
		}
	}
}

// Size returns the number of loaded points.
func (s *Store) Size() int { return len(s.points) }

// Skipped returns the records rejected during load, in source order.
func (s *Store) Skipped() []Skipped { return s.skipped }

// validateCoverage checks that an annotation set covers exactly the
// stored ids, so a stage commit is all-or-nothing.
func (s *Store) validateCoverage(stage string, n int, has func(id string) bool) error {
	if n != len(s.points) {
		return eris.Errorf("store: %s annotation covers %d of %d points", stage, n, len(s.points))
	}
	for id := range s.index {
		if !has(id) {
			return eris.Errorf("store: %s annotation missing id %q", stage, id)
		}
	}
	return nil
}

// SetRegions commits region labels for every point. The map must cover
// exactly the stored ids; otherwise the store is left untouched.
func (s *Store) SetRegions(regions map[string]string) error {
	err := s.validateCoverage("region", len(regions), func(id string) bool {
		_, ok := regions[id]
		return ok
	})
	if err != nil {
		return err
	}
	for id, label := range regions {
		s.points[s.index[id]].Region = &label
	}
	return nil
}

// SetFlags commits quality flags for every point. A nil set clears the
// point's flags. The map must cover exactly the stored ids.
func (s *Store) SetFlags(flags map[string]model.FlagSet) error {
	err := s.validateCoverage("quality", len(flags), func(id string) bool {
		_, ok := flags[id]
		return ok
	})
	if err != nil {
		return err
	}
	for id, set := range flags {
		s.points[s.index[id]].Flags = set
	}
	return nil
}

// SetClusters commits cluster assignments for every point. A nil value
// marks noise. The map must cover exactly the stored ids.
func (s *Store) SetClusters(clusters map[string]*int) error {
	err := s.validateCoverage("cluster", len(clusters), func(id string) bool {
		_, ok := clusters[id]
		return ok
	})
	if err != nil {
		return err
	}
	for id, cid := range clusters {
		s.points[s.index[id]].ClusterID = cid
	}
	return nil
}
