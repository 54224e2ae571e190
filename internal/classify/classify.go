package classify

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// Classify assigns a region label to every point in the store and
// commits the labels atomically. Classification is a pure function of
// each point's longitude, so the work is sharded across workers and
// merged by id; the result is independent of store order. Returns the
// per-region counts.
func Classify(ctx context.Context, st *store.Store, rules RuleSet) (map[string]int, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "classify"))

	points := make([]model.Point, 0, st.Size())
	for p := range st.All() {
		points = append(points, p)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(points) {
		workers = 1
	}

	shards := make([]map[string]string, workers)
	g, _ := errgroup.WithContext(ctx)
	chunk := (len(points) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(points))
		if lo >= hi {
			shards[w] = map[string]string{}
			continue
		}
		g.Go(func() error {
			labels := make(map[string]string, hi-lo)
			for _, p := range points[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				labels[p.ID] = rules.Label(p.Lon)
			}
			shards[w] = labels
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	regions := make(map[string]string, len(points))
	for _, shard := range shards {
		for id, label := range shard {
			regions[id] = label
		}
	}

	if err := st.SetRegions(regions); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, label := range regions {
		counts[label]++
	}
	log.Info("classification complete",
		zap.Int("points", len(points)),
		zap.Int("regions", len(counts)),
	)
	return counts, nil
}
