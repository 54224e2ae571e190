// Package pipeline composes the analysis stages in fixed order:
// load, classify, quality, cluster, export summary. It is the only
// component with orchestration logic.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/terralith/sitepoint-cli/internal/classify"
	"github.com/terralith/sitepoint-cli/internal/cluster"
	"github.com/terralith/sitepoint-cli/internal/config"
	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/ingest"
	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/quality"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// Pipeline runs the full analysis over one loaded store.
type Pipeline struct {
	cfg   *config.Config
	rules classify.RuleSet
}

// Result carries everything one run produced. The store is annotated in
// place; the reports are the side outputs of their stages.
type Result struct {
	Store        *store.Store
	Skipped      []store.Skipped
	RegionCounts map[string]int
	Quality      *model.QualityReport
	Clusters     *model.ClusterReport
	Summary      *model.Summary
	Stages       []StageResult
}

// StageResult records one stage's outcome for the run log.
type StageResult struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Err      string        `json:"error,omitempty"`
}

// New validates the configuration and parses the rule set up front, so
// a run with bad parameters fails before any stage executes.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := classify.Parse(cfg.Classify.Rules)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, rules: rules}, nil
}

// Rules returns the parsed region rule set.
func (p *Pipeline) Rules() classify.RuleSet { return p.rules }

// Run executes load through summary over the given raw features. Each
// stage either fully annotates the store or fails without touching it,
// so a partial run never leaves mixed annotations within one stage.
func (p *Pipeline) Run(ctx context.Context, features []ingest.Feature) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"))
	result := &Result{}

	track := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		sr := StageResult{Name: name, Duration: time.Since(start)}
		if err != nil {
			sr.Err = err.Error()
			result.Stages = append(result.Stages, sr)
			log.Error("stage failed", zap.String("stage", name), zap.Duration("duration", sr.Duration), zap.Error(err))
			return eris.Wrapf(err, "pipeline: stage %s", name)
		}
		result.Stages = append(result.Stages, sr)
		log.Info("stage complete", zap.String("stage", name), zap.Duration("duration", sr.Duration))
		return nil
	}

	if err := track("load", func() error {
		st, err := store.Load(features, store.LoadOptions{Strict: p.cfg.Load.Strict})
		if err != nil {
			return err
		}
		result.Store = st
		result.Skipped = st.Skipped()
		return nil
	}); err != nil {
		return nil, err
	}

	if err := track("classify", func() error {
		counts, err := classify.Classify(ctx, result.Store, p.rules)
		if err != nil {
			return err
		}
		result.RegionCounts = counts
		return nil
	}); err != nil {
		return nil, err
	}

	if err := track("quality", func() error {
		report, err := quality.Analyze(result.Store, quality.Config{
			Precision: p.cfg.Quality.DuplicatePrecision,
			Sigma:     p.cfg.Quality.OutlierSigma,
		})
		if err != nil {
			return err
		}
		result.Quality = report
		return nil
	}); err != nil {
		return nil, err
	}

	if err := track("cluster", func() error {
		report, err := cluster.Run(ctx, result.Store, cluster.Config{
			Eps:       p.cfg.Cluster.Eps,
			MinPoints: p.cfg.Cluster.MinPoints,
		})
		if err != nil {
			return err
		}
		result.Clusters = report
		return nil
	}); err != nil {
		return nil, err
	}

	if err := track("summarize", func() error {
		result.Summary = export.Summarize(result.Store, result.Quality, result.Clusters)
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}
