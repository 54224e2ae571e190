package cluster

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// Config holds the two standard density-clustering parameters.
type Config struct {
	// Eps is the neighborhood radius in coordinate degrees. Distance is
	// planar Euclidean on (lon, lat), an accepted approximation for
	// regional-scale analysis, not geodesic.
	Eps float64
	// MinPoints is the minimum neighborhood size (self included) for a
	// point to seed a cluster.
	MinPoints int
}

// Validate rejects unusable parameters. Eps of exactly zero is allowed
// as the degenerate only-co-located-points radius.
func (c Config) Validate() error {
	if c.Eps < 0 {
		return eris.Wrapf(model.ErrConfiguration, "cluster: negative eps %g", c.Eps)
	}
	if c.MinPoints < 1 {
		return eris.Wrapf(model.ErrConfiguration, "cluster: min_points %d < 1", c.MinPoints)
	}
	return nil
}

const (
	unvisited = -2
	noise     = -1
)

// Run executes DBSCAN over the store. Cluster ids are numbered in the
// order their seed is first visited, walking points in insertion order,
// so identical input yields identical ids. The grid index makes the
// neighborhood scan expected O(n) per uniform-density run instead of
// the naive pairwise O(n^2).
//
// Assignments are built in a scratch buffer and committed in one call;
// cancellation between seed visits leaves the store untouched.
func Run(ctx context.Context, st *store.Store, cfg Config) (*model.ClusterReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "cluster"))

	n := st.Size()
	ids := make([]string, 0, n)
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for p := range st.All() {
		ids = append(ids, p.ID)
		xs = append(xs, p.Lon)
		ys = append(ys, p.Lat)
	}

	index := newGridIndex(xs, ys, cfg.Eps)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	nextID := 0
	for i := 0; i < n; i++ {
		// Cooperative cancellation between units of work.
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "cluster: cancelled")
		}
		if labels[i] != unvisited {
			continue
		}

		seedNeighbors := index.neighbors(i)
		if len(seedNeighbors) < cfg.MinPoints {
			labels[i] = noise
			continue
		}

		// Density-connected expansion from the seed core point.
		cid := nextID
		nextID++
		labels[i] = cid

		queue := append([]int(nil), seedNeighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == noise {
				// Border point: absorbed, but never expanded.
				labels[j] = cid
				continue
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cid

			jn := index.neighbors(j)
			if len(jn) >= cfg.MinPoints {
				queue = append(queue, jn...)
			}
		}
	}

	// Commit and build the report.
	assignments := make(map[string]*int, n)
	members := make([][]int, nextID)
	noiseCount := 0
	for i, label := range labels {
		if label < 0 {
			assignments[ids[i]] = nil
			noiseCount++
			continue
		}
		cid := label
		assignments[ids[i]] = &cid
		members[label] = append(members[label], i)
	}

	if err := st.SetClusters(assignments); err != nil {
		return nil, err
	}

	report := &model.ClusterReport{
		Eps:       cfg.Eps,
		MinPoints: cfg.MinPoints,
		Clusters:  make([]model.Cluster, 0, nextID),
		Noise:     noiseCount,
	}
	for cid, idxs := range members {
		c := model.Cluster{ID: cid, Members: make([]string, 0, len(idxs))}
		bounds := geom.NewBounds(geom.XY)
		var sumX, sumY float64
		for _, i := range idxs {
			c.Members = append(c.Members, ids[i])
			sumX += xs[i]
			sumY += ys[i]
			bounds.Extend(geom.NewPointFlat(geom.XY, []float64{xs[i], ys[i]}))
		}
		c.CentroidLon = sumX / float64(len(idxs))
		c.CentroidLat = sumY / float64(len(idxs))
		c.Extent = model.Extent{
			MinLon: bounds.Min(0), MinLat: bounds.Min(1),
			MaxLon: bounds.Max(0), MaxLat: bounds.Max(1),
		}
		report.Clusters = append(report.Clusters, c)
	}

	log.Info("clustering complete",
		zap.Int("clusters", nextID),
		zap.Int("noise", noiseCount),
		zap.Float64("eps", cfg.Eps),
		zap.Int("min_points", cfg.MinPoints),
	)
	return report, nil
}
