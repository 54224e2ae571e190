package ingest

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// ReadCSV parses a CSV with a header row into features. Coordinate
// columns are detected by name (longitude/lon/lng/x, latitude/lat/y);
// the remaining columns become attributes.
func ReadCSV(r io.Reader) ([]Feature, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("ingest: empty csv input")
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		rows = append(rows, record)
	}

	return tabularFeatures(header, rows), nil
}
