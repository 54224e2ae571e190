package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terralith/sitepoint-cli/internal/pipeline"
	"github.com/terralith/sitepoint-cli/internal/store"
)

var inspectStrict bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Load an input file and report its size and skipped records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadCfg := cfg.Load
		if inspectStrict {
			loadCfg.Strict = true
		}

		features, err := pipeline.ReadInput(args[0], loadCfg)
		if err != nil {
			return err
		}
		st, err := store.Load(features, store.LoadOptions{Strict: loadCfg.Strict})
		if err != nil {
			return err
		}

		out := struct {
			Size    int             `json:"size"`
			Skipped []store.Skipped `json:"skipped,omitempty"`
		}{Size: st.Size(), Skipped: st.Skipped()}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectStrict, "strict", false, "abort on the first malformed record")
	rootCmd.AddCommand(inspectCmd)
}
