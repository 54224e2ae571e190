package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terralith/sitepoint-cli/internal/classify"
	"github.com/terralith/sitepoint-cli/internal/pipeline"
	"github.com/terralith/sitepoint-cli/internal/store"
)

var classifyRules []string

var classifyCmd = &cobra.Command{
	Use:   "classify <input>",
	Short: "Assign region labels and print the per-region counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs := cfg.Classify.Rules
		if len(classifyRules) > 0 {
			specs = classifyRules
		}
		rules, err := classify.Parse(specs)
		if err != nil {
			return err
		}

		features, err := pipeline.ReadInput(args[0], cfg.Load)
		if err != nil {
			return err
		}
		st, err := store.Load(features, store.LoadOptions{Strict: cfg.Load.Strict})
		if err != nil {
			return err
		}

		counts, err := classify.Classify(cmd.Context(), st, rules)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(counts)
	},
}

func init() {
	classifyCmd.Flags().StringSliceVar(&classifyRules, "rule", nil,
		`region rule ("lon<-100=Western") or preset ("three-way", "two-way"); repeatable`)
	rootCmd.AddCommand(classifyCmd)
}
