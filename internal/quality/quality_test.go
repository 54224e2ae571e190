package quality

import (
	"fmt"
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralith/sitepoint-cli/internal/ingest"
	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

func loadPoints(t *testing.T, coords [][2]float64) *store.Store {
	t.Helper()
	features := make([]ingest.Feature, len(coords))
	for i, c := range coords {
		features[i] = ingest.Feature{
			ID:        fmt.Sprintf("p%d", i),
			Lon:       c[0],
			Lat:       c[1],
			HasCoords: true,
		}
	}
	st, err := store.Load(features, store.LoadOptions{})
	require.NoError(t, err)
	return st
}

func TestImpossiblePredicate(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		expected bool
	}{
		{"normal point", -95.3, 38.2, false},
		{"latitude over 90", -95.0, 90.5, true},
		{"latitude under -90", -95.0, -91.0, true},
		{"longitude over 180", 181.0, 40.0, true},
		{"longitude under -180", -180.5, 40.0, true},
		{"null island sentinel", 0, 0, true},
		{"zero lat only", -95.0, 0, false},
		{"zero lon only", 0, 38.0, false},
		{"exact latitude bound", -95.0, 90.0, false},
		{"exact longitude bound", 180.0, 40.0, false},
		{"nan longitude", math.NaN(), 38.0, true},
		{"nan latitude", -95.0, math.NaN(), true},
		{"infinite longitude", math.Inf(1), 38.0, true},
		{"negative infinite latitude", -95.0, math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Impossible(tt.lon, tt.lat))
		})
	}
}

func TestAnalyzeFlagsImpossible(t *testing.T) {
	st := loadPoints(t, [][2]float64{
		{-95, 38},
		{0, 0},
		{-200, 40},
	})

	report, err := Analyze(st, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, report.ImpossibleCount)

	p, _ := st.Get("p1")
	assert.True(t, p.Flags.Has(model.FlagImpossible))
	ok, _ := st.Get("p0")
	assert.False(t, ok.Flags.Has(model.FlagImpossible))
}

func TestAnalyzeDuplicateGroups(t *testing.T) {
	// p0, p1, p2 agree to six decimals; p3 is distinct.
	st := loadPoints(t, [][2]float64{
		{-95.1234561, 38.0000001},
		{-95.1234562, 38.0000002},
		{-95.1234563, 38.0000003},
		{-95.2, 38.5},
	})

	report, err := Analyze(st, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, report.DuplicateGroups, 1)
	// Symmetric and transitive: all three land in one group.
	assert.Equal(t, []string{"p0", "p1", "p2"}, report.DuplicateGroups[0].Members)
	assert.Equal(t, 3, report.DuplicateCount)

	for _, id := range []string{"p0", "p1", "p2"} {
		p, _ := st.Get(id)
		assert.True(t, p.Flags.Has(model.FlagDuplicate), id)
	}
	p3, _ := st.Get("p3")
	assert.False(t, p3.Flags.Has(model.FlagDuplicate))
}

func TestAnalyzeDuplicatePrecision(t *testing.T) {
	st := loadPoints(t, [][2]float64{
		{-95.12, 38.01},
		{-95.13, 38.02},
	})

	// Coarse rounding makes them match.
	report, err := Analyze(st, Config{Precision: 1, Sigma: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, report.DuplicateCount)

	// Default precision keeps them apart.
	report, err = Analyze(st, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, report.DuplicateCount)
}

// cloudWithOutlier is a tight 30-point cloud near (-95, 38) plus one
// point far enough east that it exceeds 3 sigma on the longitude axis.
func cloudWithOutlier() [][2]float64 {
	var coords [][2]float64
	for i := 0; i < 30; i++ {
		coords = append(coords, [2]float64{
			-95.0 + 0.01*float64(i%10),
			38.0 + 0.01*float64(i%7),
		})
	}
	return append(coords, [2]float64{-60.0, 38.0})
}

func TestAnalyzeOutliers(t *testing.T) {
	st := loadPoints(t, cloudWithOutlier())

	report, err := Analyze(st, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, report.OutlierCount)

	far, _ := st.Get("p30")
	assert.True(t, far.Flags.Has(model.FlagOutlier))
}

func TestOutlierStatsExcludeImpossible(t *testing.T) {
	coords := cloudWithOutlier()
	base := loadPoints(t, coords)
	baseReport, err := Analyze(base, DefaultConfig())
	require.NoError(t, err)

	// Add one impossible point: no other point's outlier flag may change.
	withBad := loadPoints(t, append(coords, [2]float64{500, 500}))
	badReport, err := Analyze(withBad, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, baseReport.OutlierCount, badReport.OutlierCount)
	assert.Equal(t, baseReport.MeanLon, badReport.MeanLon)
	assert.Equal(t, baseReport.StddevLat, badReport.StddevLat)

	for p := range base.All() {
		q, getErr := withBad.Get(p.ID)
		require.NoError(t, getErr)
		assert.Equal(t, p.Flags.Has(model.FlagOutlier), q.Flags.Has(model.FlagOutlier), p.ID)
	}

	// The impossible point itself is never an outlier.
	bad, _ := withBad.Get("p31")
	assert.True(t, bad.Flags.Has(model.FlagImpossible))
	assert.False(t, bad.Flags.Has(model.FlagOutlier))
}

func TestOutlierStatsSurviveNaNCoordinate(t *testing.T) {
	// A NaN coordinate would make every mean and stddev NaN if it reached
	// the statistics, silencing outlier detection for the whole store.
	coords := append(cloudWithOutlier(), [2]float64{math.NaN(), 38.0})
	st := loadPoints(t, coords)

	report, err := Analyze(st, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, report.OutlierCount)
	assert.False(t, math.IsNaN(report.MeanLon))
	assert.False(t, math.IsNaN(report.StddevLon))

	far, _ := st.Get("p30")
	assert.True(t, far.Flags.Has(model.FlagOutlier))

	bad, _ := st.Get("p31")
	assert.True(t, bad.Flags.Has(model.FlagImpossible))
	assert.False(t, bad.Flags.Has(model.FlagOutlier))
}

func TestAnalyzeDuplicatesStraddlingZero(t *testing.T) {
	// Both longitudes round to zero at six decimals; the sign of the
	// unrounded value must not split the bucket.
	st := loadPoints(t, [][2]float64{
		{-0.0000004, 38.0000001},
		{0.0000004, 38.0000002},
	})

	report, err := Analyze(st, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, report.DuplicateCount)
	require.Len(t, report.DuplicateGroups, 1)
	assert.Equal(t, "0.000000,38.000000", report.DuplicateGroups[0].Key)
	assert.Equal(t, []string{"p0", "p1"}, report.DuplicateGroups[0].Members)
}

func TestAnalyzeNoFlagRemovesPoints(t *testing.T) {
	st := loadPoints(t, [][2]float64{{-95, 38}, {0, 0}, {0, 0}})
	_, err := Analyze(st, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Size())
}

func TestConfigValidate(t *testing.T) {
	_, err := Analyze(loadPoints(t, [][2]float64{{-95, 38}}), Config{Precision: -1, Sigma: 3})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfiguration))

	_, err = Analyze(loadPoints(t, [][2]float64{{-95, 38}}), Config{Precision: 6, Sigma: -0.5})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfiguration))
}
