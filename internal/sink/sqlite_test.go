package sink

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/ingest"
	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

func exportFixture(t *testing.T) (*store.Store, export.Schema) {
	t.Helper()
	st, err := store.Load([]ingest.Feature{
		{ID: "a", Lon: -100.123456789012, Lat: 40.5, HasCoords: true, Properties: map[string]any{
			"depth_m": 12.5, "method": "CPT",
		}},
		{ID: "b", Lon: -90.25, Lat: 35.75, HasCoords: true, Properties: map[string]any{
			"depth_m": 8.0,
		}},
	}, store.LoadOptions{})
	require.NoError(t, err)
	require.NoError(t, st.SetRegions(map[string]string{"a": model.RegionWestern, "b": model.RegionEastern}))
	return st, export.Infer(st)
}

func TestSQLiteSinkRoundTrip(t *testing.T) {
	st, schema := exportFixture(t)

	s, err := NewSQLite(t.TempDir() + "/export.db")
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	require.NoError(t, s.Write(context.Background(), "site_points", schema, st))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM "site_points"`).Scan(&count))
	assert.Equal(t, 2, count)

	var lon, lat float64
	var region sql.NullString
	var depth float64
	err = s.db.QueryRow(`SELECT longitude, latitude, region, depth_m FROM "site_points" WHERE id = 'a'`).
		Scan(&lon, &lat, &region, &depth)
	require.NoError(t, err)

	// Coordinates survive the round trip at full precision.
	assert.Equal(t, -100.123456789012, lon)
	assert.Equal(t, 40.5, lat)
	assert.Equal(t, model.RegionWestern, region.String)
	assert.Equal(t, 12.5, depth)

	var cluster sql.NullInt64
	require.NoError(t, s.db.QueryRow(`SELECT cluster_id FROM "site_points" WHERE id = 'b'`).Scan(&cluster))
	assert.False(t, cluster.Valid)
}

func TestFileSinkStatements(t *testing.T) {
	st, schema := exportFixture(t)

	var buf bytes.Buffer
	require.NoError(t, FileSink{W: &buf}.Write(context.Background(), "site_points", schema, st))

	out := buf.String()
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "site_points"`)
	assert.Contains(t, out, "-100.123456789012")
	assert.Contains(t, out, "'Western'")
}
