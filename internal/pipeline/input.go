package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/terralith/sitepoint-cli/internal/config"
	"github.com/terralith/sitepoint-cli/internal/ingest"
)

// ReadInput parses one input file into raw features. The reader is
// picked from cfg.Format, or from the file extension when "auto". The
// file handle is scoped to this call; no I/O happens mid-analysis.
func ReadInput(path string, cfg config.LoadConfig) ([]ingest.Feature, error) {
	format := cfg.Format
	if format == "" || format == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".geojson", ".json":
			format = "geojson"
		case ".csv":
			format = "csv"
		case ".shp":
			format = "shp"
		case ".xlsx":
			format = "xlsx"
		default:
			return nil, eris.Errorf("pipeline: cannot infer input format from %q", path)
		}
	}

	switch format {
	case "geojson":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ingest.ReadGeoJSON(f)
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ingest.ReadCSV(f)
	case "shp":
		return ingest.ReadShapefile(path)
	case "xlsx":
		return ingest.ReadXLSX(path, ingest.XLSXOptions{SheetName: cfg.Sheet})
	default:
		return nil, eris.Errorf("pipeline: unknown input format %q", format)
	}
}
