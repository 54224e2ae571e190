package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terralith/sitepoint-cli/internal/cluster"
	"github.com/terralith/sitepoint-cli/internal/pipeline"
	"github.com/terralith/sitepoint-cli/internal/store"
)

var (
	clusterEps       float64
	clusterMinPoints int
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <input>",
	Short: "Group points into density-based spatial clusters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc := cluster.Config{
			Eps:       cfg.Cluster.Eps,
			MinPoints: cfg.Cluster.MinPoints,
		}
		if cmd.Flags().Changed("eps") {
			cc.Eps = clusterEps
		}
		if cmd.Flags().Changed("min-points") {
			cc.MinPoints = clusterMinPoints
		}

		features, err := pipeline.ReadInput(args[0], cfg.Load)
		if err != nil {
			return err
		}
		st, err := store.Load(features, store.LoadOptions{Strict: cfg.Load.Strict})
		if err != nil {
			return err
		}

		report, err := cluster.Run(cmd.Context(), st, cc)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	clusterCmd.Flags().Float64Var(&clusterEps, "eps", 0.5, "neighborhood radius in coordinate degrees")
	clusterCmd.Flags().IntVar(&clusterMinPoints, "min-points", 5, "minimum neighborhood size to seed a cluster")
	rootCmd.AddCommand(clusterCmd)
}
