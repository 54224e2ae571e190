package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/terralith/sitepoint-cli/internal/db"
	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/pipeline"
	"github.com/terralith/sitepoint-cli/internal/sink"
)

var (
	exportOut      string
	exportSQLite   string
	exportPostgres string
	exportTable    string
)

var exportCmd = &cobra.Command{
	Use:   "export <input>",
	Short: "Run the full pipeline and write schema + data statements",
	Long:  "Runs load, classify, quality, and cluster, then exports the annotated store as SQL text (default stdout), a SQLite file, or a Postgres table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		features, err := pipeline.ReadInput(args[0], cfg.Load)
		if err != nil {
			return err
		}
		result, err := p.Run(ctx, features)
		if err != nil {
			return err
		}

		table := cfg.Export.Table
		if exportTable != "" {
			table = exportTable
		}
		schema := export.Infer(result.Store)

		switch {
		case exportPostgres != "":
			pool, err := db.Connect(ctx, exportPostgres)
			if err != nil {
				return err
			}
			defer pool.Close()
			return sink.NewPostgres(pool).Write(ctx, table, schema, result.Store)

		case exportSQLite != "":
			s, err := sink.NewSQLite(exportSQLite)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			return s.Write(ctx, table, schema, result.Store)

		case exportOut != "":
			f, err := os.Create(exportOut)
			if err != nil {
				return eris.Wrapf(err, "export: create %s", exportOut)
			}
			defer f.Close() //nolint:errcheck
			return sink.FileSink{W: f}.Write(ctx, table, schema, result.Store)

		default:
			return sink.FileSink{W: os.Stdout}.Write(ctx, table, schema, result.Store)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write SQL statements to a file instead of stdout")
	exportCmd.Flags().StringVar(&exportSQLite, "sqlite", "", "write into a SQLite database at this path")
	exportCmd.Flags().StringVar(&exportPostgres, "postgres", "", "write into Postgres at this database URL")
	exportCmd.Flags().StringVar(&exportTable, "table", "", "target table name (default from config)")
	rootCmd.AddCommand(exportCmd)
}
