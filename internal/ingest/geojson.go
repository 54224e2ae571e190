package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// rawFeature defers geometry decoding so one bad geometry does not abort
// the whole collection; the store reports it as a malformed record.
type rawFeature struct {
	ID         any             `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

// ReadGeoJSON parses a GeoJSON FeatureCollection into features. Only
// Point geometries carry coordinates; missing, invalid, or non-point
// geometries yield a feature with HasCoords false.
func ReadGeoJSON(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read geojson")
	}

	var fc rawCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "ingest: decode geojson")
	}
	if fc.Type != "FeatureCollection" {
		return nil, eris.Errorf("ingest: expected FeatureCollection, got %q", fc.Type)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, rf := range fc.Features {
		f := Feature{Properties: rf.Properties}
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}
		if rf.ID != nil {
			f.ID = fmt.Sprint(rf.ID)
		}

		if len(rf.Geometry) > 0 {
			var g geom.T
			if err := geojson.Unmarshal(rf.Geometry, &g); err == nil {
				if pt, ok := g.(*geom.Point); ok && len(pt.FlatCoords()) >= 2 {
					f.Lon, f.Lat, f.HasCoords = pt.X(), pt.Y(), true
				}
			}
		}
		features = append(features, f)
	}
	return features, nil
}
