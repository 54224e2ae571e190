package classify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralith/sitepoint-cli/internal/ingest"
	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

func storeFromLons(t *testing.T, lons []float64) *store.Store {
	t.Helper()
	features := make([]ingest.Feature, len(lons))
	for i, lon := range lons {
		features[i] = ingest.Feature{
			ID:        fmt.Sprintf("p%d", i),
			Lon:       lon,
			Lat:       35.0,
			HasCoords: true,
		}
	}
	st, err := store.Load(features, store.LoadOptions{})
	require.NoError(t, err)
	return st
}

func TestClassifyAssignsEveryPoint(t *testing.T) {
	st := storeFromLons(t, []float64{-120, -95, -80, -101, -85})

	counts, err := Classify(context.Background(), st, ThreeWay())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		model.RegionWestern: 2,
		model.RegionCentral: 2,
		model.RegionEastern: 1,
	}, counts)

	for p := range st.All() {
		require.NotNil(t, p.Region, "point %s has no region", p.ID)
	}
}

func TestClassifyTwoWayCounts(t *testing.T) {
	lons := []float64{-120, -96, -95, -94.9, -80, -60}
	st := storeFromLons(t, lons)

	counts, err := Classify(context.Background(), st, TwoWay())
	require.NoError(t, err)

	assert.Equal(t, 3, counts[model.RegionEastern])
	assert.Equal(t, 3, counts[model.RegionWestern])
}

func TestClassifyOrderIndependent(t *testing.T) {
	lons := []float64{-120, -95, -80, -101, -85, -99.5, -70}
	reversed := make([]float64, len(lons))
	for i, lon := range lons {
		reversed[len(lons)-1-i] = lon
	}

	a := storeFromLons(t, lons)
	b := storeFromLons(t, reversed)

	_, err := Classify(context.Background(), a, ThreeWay())
	require.NoError(t, err)
	_, err = Classify(context.Background(), b, ThreeWay())
	require.NoError(t, err)

	// Same longitude always gets the same label regardless of position.
	labelsByLon := map[float64]string{}
	for p := range a.All() {
		labelsByLon[p.Lon] = *p.Region
	}
	for p := range b.All() {
		assert.Equal(t, labelsByLon[p.Lon], *p.Region, "lon %g", p.Lon)
	}
}

func TestClassifyUnclassifiedFallback(t *testing.T) {
	st := storeFromLons(t, []float64{50, -120})
	rules := RuleSet{{Op: OpLT, Threshold: -100, Label: model.RegionWestern}}

	counts, err := Classify(context.Background(), st, rules)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.RegionUnclassified])
	assert.Equal(t, 1, counts[model.RegionWestern])
}

func TestClassifyInvalidRules(t *testing.T) {
	st := storeFromLons(t, []float64{-120})
	_, err := Classify(context.Background(), st, RuleSet{})
	require.Error(t, err)

	// Store untouched on failure.
	for p := range st.All() {
		assert.Nil(t, p.Region)
	}
}
