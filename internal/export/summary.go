package export

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// Summarize builds the structured run report: total count, per-region
// and per-flag counts, and cluster count/sizes ordered by cluster id.
// Pure read; either report may be nil when its stage did not run.
func Summarize(st *store.Store, quality *model.QualityReport, clusters *model.ClusterReport) *model.Summary {
	s := &model.Summary{
		TotalCount:    st.Size(),
		RegionCounts:  map[string]int{},
		QualityCounts: map[string]int{},
		ClusterSizes:  []int{},
	}

	for p := range st.All() {
		if p.Region != nil {
			s.RegionCounts[*p.Region]++
		}
		for _, f := range p.Flags.Sorted() {
			s.QualityCounts[string(f)]++
		}
	}

	// The analyzer report is authoritative when supplied; committed flags
	// cover the case where only some stages ran.
	if quality != nil {
		s.QualityCounts = map[string]int{
			string(model.FlagDuplicate):  quality.DuplicateCount,
			string(model.FlagOutlier):    quality.OutlierCount,
			string(model.FlagImpossible): quality.ImpossibleCount,
		}
	}

	if clusters != nil {
		s.ClusterCount = len(clusters.Clusters)
		for _, c := range clusters.Clusters {
			s.ClusterSizes = append(s.ClusterSizes, len(c.Members))
		}
	}
	return s
}

// RenderSummary serializes the summary as "json" or "yaml".
func RenderSummary(s *model.Summary, format string) ([]byte, error) {
	switch format {
	case "", "json":
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "export: marshal summary json")
		}
		return out, nil
	case "yaml":
		out, err := yaml.Marshal(s)
		if err != nil {
			return nil, eris.Wrap(err, "export: marshal summary yaml")
		}
		return out, nil
	default:
		return nil, eris.Wrapf(model.ErrConfiguration, "export: unknown summary format %q", format)
	}
}
