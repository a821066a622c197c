// Package ml implements the ml command
package ml

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/internal/analysis"
	"github.com/tphakala/trapstats/internal/report"
	"github.com/tphakala/trapstats/internal/runtime"
)

// Command creates the ml command
func Command(rt *runtime.Context) *cobra.Command {
	var (
		src      runtime.SourceFlags
		format   string
		clusters int
	)

	cmd := &cobra.Command{
		Use:   "ml",
		Short: "Cluster species and flag anomalies",
		Long: `Extract per-species features and run PCA, k-means clustering, anomaly
scoring and feature importance over the normalized feature matrix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			p, ds, err := rt.Load(cmd.Context(), src, func(o *analysis.Options) {
				if cmd.Flags().Changed("clusters") {
					o.Clusters = clusters
				}
			})
			if err != nil {
				return err
			}
			r, err := p.ML(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return report.WriteML(cmd.OutOrStdout(), f, r)
		},
	}

	src.Register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, yaml")
	cmd.Flags().IntVarP(&clusters, "clusters", "k", 3, "Number of k-means clusters (overrides analysis.kmeans.k)")

	return cmd
}
