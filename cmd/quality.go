package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terralith/sitepoint-cli/internal/pipeline"
	"github.com/terralith/sitepoint-cli/internal/quality"
	"github.com/terralith/sitepoint-cli/internal/store"
)

var (
	qualityPrecision int
	qualitySigma     float64
)

var qualityCmd = &cobra.Command{
	Use:   "quality <input>",
	Short: "Flag duplicates, outliers, and impossible coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qc := quality.Config{
			Precision: cfg.Quality.DuplicatePrecision,
			Sigma:     cfg.Quality.OutlierSigma,
		}
		if cmd.Flags().Changed("precision") {
			qc.Precision = qualityPrecision
		}
		if cmd.Flags().Changed("sigma") {
			qc.Sigma = qualitySigma
		}

		features, err := pipeline.ReadInput(args[0], cfg.Load)
		if err != nil {
			return err
		}
		st, err := store.Load(features, store.LoadOptions{Strict: cfg.Load.Strict})
		if err != nil {
			return err
		}

		report, err := quality.Analyze(st, qc)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	qualityCmd.Flags().IntVar(&qualityPrecision, "precision", 6, "decimal precision for duplicate comparison")
	qualityCmd.Flags().Float64Var(&qualitySigma, "sigma", 3.0, "outlier threshold in standard deviations")
	rootCmd.AddCommand(qualityCmd)
}
