package ingest

import (
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// ReadShapefile reads point shapes and their DBF attributes from a
// shapefile. Non-point shapes yield features with HasCoords false; the
// store reports them as malformed (non-point geometries are out of
// scope for the engine).
func ReadShapefile(path string) ([]Feature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	var features []Feature
	for reader.Next() {
		_, shape := reader.Shape()

		f := Feature{Properties: map[string]any{}}
		for i, name := range names {
			val := strings.TrimSpace(reader.Attribute(i))
			if val == "" {
				continue
			}
			if matchColumn(name, idColumns) && f.ID == "" {
				f.ID = val
				continue
			}
			f.Properties[name] = coerceScalar(val)
		}

		if pt, ok := shape.(*shp.Point); ok {
			f.Lon, f.Lat, f.HasCoords = pt.X, pt.Y, true
		}
		features = append(features, f)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "ingest: iterate shapefile")
	}
	return features, nil
}
