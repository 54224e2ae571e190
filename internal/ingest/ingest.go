// Package ingest parses geotagged site-investigation records from GeoJSON,
// CSV, shapefile, and XLSX sources into a common feature shape.
package ingest

import (
	"strconv"
	"strings"
)

// Feature is one raw input record: a coordinate pair plus named
// attributes. HasCoords is false when the source record carried no
// usable geometry; the store treats such records as malformed.
type Feature struct {
	ID         string
	Lon        float64
	Lat        float64
	HasCoords  bool
	Properties map[string]any
}

// Column names recognized as coordinates in tabular sources
// (case-insensitive).
var (
	lonColumns = []string{"longitude", "lon", "lng", "long", "x"}
	latColumns = []string{"latitude", "lat", "y"}
	idColumns  = []string{"id", "point_id", "site_id"}
)

func matchColumn(name string, candidates []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

// coerceScalar converts a raw cell into the narrowest scalar that
// round-trips: bool, int64, float64, then string.
func coerceScalar(raw string) any {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return raw
}

// tabularFeatures converts header+rows into features, used by the CSV
// and XLSX readers. Rows with unparseable coordinates come back with
// HasCoords false rather than being dropped.
func tabularFeatures(header []string, rows [][]string) []Feature {
	lonIdx, latIdx, idIdx := -1, -1, -1
	for i, name := range header {
		switch {
		case lonIdx < 0 && matchColumn(name, lonColumns):
			lonIdx = i
		case latIdx < 0 && matchColumn(name, latColumns):
			latIdx = i
		case idIdx < 0 && matchColumn(name, idColumns):
			idIdx = i
		}
	}

	features := make([]Feature, 0, len(rows))
	for _, row := range rows {
		f := Feature{Properties: map[string]any{}}

		if lonIdx >= 0 && latIdx >= 0 && lonIdx < len(row) && latIdx < len(row) {
			lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
			lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
			if lonErr == nil && latErr == nil {
				f.Lon, f.Lat, f.HasCoords = lon, lat, true
			}
		}
		if idIdx >= 0 && idIdx < len(row) {
			f.ID = strings.TrimSpace(row[idIdx])
		}

		for i, name := range header {
			if i == lonIdx || i == latIdx || i == idIdx || i >= len(row) {
				continue
			}
			if strings.TrimSpace(row[i]) == "" {
				continue
			}
			f.Properties[name] = coerceScalar(row[i])
		}
		features = append(features, f)
	}
	return features
}
