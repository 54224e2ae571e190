package sink

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// SQLiteSink writes the export into a SQLite database file.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database at the given path and
// configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sink: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sink: exec %s", pragma)
		}
	}
	return &SQLiteSink{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error { return s.db.Close() }

// Write creates the table and inserts every point inside one
// transaction, so a failed export leaves no partial table behind.
func (s *SQLiteSink) Write(ctx context.Context, table string, schema export.Schema, st *store.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sink: begin sqlite tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, export.CreateStatement(table, schema)); err != nil {
		return eris.Wrap(err, "sink: create sqlite table")
	}

	placeholders := make([]string, len(schema.Fields))
	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		placeholders[i] = "?"
		cols[i] = `"` + f.Name + `"`
	}
	insertSQL := "INSERT INTO \"" + table + "\" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return eris.Wrap(err, "sink: prepare sqlite insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range export.Rows(st, schema) {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "sink: insert row %v", row[0])
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sink: commit sqlite tx")
	}
	return nil
}
