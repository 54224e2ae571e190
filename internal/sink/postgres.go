package sink

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/terralith/sitepoint-cli/internal/db"
	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// PostgresSink writes the export into Postgres using the COPY protocol.
type PostgresSink struct {
	pool db.Pool
}

// NewPostgres wraps an open pool.
func NewPostgres(pool db.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// Write creates the table if needed, truncates any previous export, and
// bulk-copies every point.
func (s *PostgresSink) Write(ctx context.Context, table string, schema export.Schema, st *store.Store) error {
	log := zap.L().With(zap.String("component", "sink.postgres"), zap.String("table", table))

	if _, err := s.pool.Exec(ctx, export.CreateStatement(table, schema)); err != nil {
		return eris.Wrapf(err, "sink: create table %s", table)
	}
	if _, err := s.pool.Exec(ctx, `TRUNCATE "`+table+`"`); err != nil {
		return eris.Wrapf(err, "sink: truncate %s", table)
	}

	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = f.Name
	}

	n, err := db.CopyInto(ctx, s.pool, table, cols, export.Rows(st, schema))
	if err != nil {
		return err
	}

	log.Info("export copied", zap.Int64("rows", n))
	return nil
}
