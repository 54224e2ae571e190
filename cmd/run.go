package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/pipeline"
)

var runFormat string

var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Run the full pipeline and print the summary report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		features, err := pipeline.ReadInput(args[0], cfg.Load)
		if err != nil {
			return err
		}
		result, err := p.Run(cmd.Context(), features)
		if err != nil {
			return err
		}

		format := cfg.Export.SummaryFormat
		if runFormat != "" {
			format = runFormat
		}
		out, err := export.RenderSummary(result.Summary, format)
		if err != nil {
			return err
		}
		out = append(out, '\n')
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&runFormat, "format", "", "summary format: json or yaml")
	rootCmd.AddCommand(runCmd)
}
