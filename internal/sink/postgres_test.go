package sink

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestPostgresSinkWrite(t *testing.T) {
	st, schema := exportFixture(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = f.Name
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("TRUNCATE").
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"site_points"}, cols).
		WillReturnResult(2)

	require.NoError(t, NewPostgres(mock).Write(context.Background(), "site_points", schema, st))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkCreateFails(t *testing.T) {
	st, schema := exportFixture(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
		WillReturnError(context.DeadlineExceeded)

	err = NewPostgres(mock).Write(context.Background(), "site_points", schema, st)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
