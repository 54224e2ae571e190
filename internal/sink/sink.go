// Package sink writes export artifacts to their destinations: a SQL
// text stream, a SQLite file, or a Postgres database.
package sink

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// Sink consumes one export: schema plus data rows for every point.
type Sink interface {
	Write(ctx context.Context, table string, schema export.Schema, st *store.Store) error
}

// FileSink renders the schema and data statements as SQL text.
type FileSink struct {
	W io.Writer
}

// Write emits the CREATE TABLE followed by one INSERT per point.
func (f FileSink) Write(_ context.Context, table string, schema export.Schema, st *store.Store) error {
	if _, err := io.WriteString(f.W, export.CreateStatement(table, schema)+"\n\n"); err != nil {
		return eris.Wrap(err, "sink: write schema statement")
	}
	for _, stmt := range export.InsertStatements(table, st, schema) {
		if _, err := io.WriteString(f.W, stmt+"\n"); err != nil {
			return eris.Wrap(err, "sink: write data statement")
		}
	}
	return nil
}
