// Package sites implements the sites command
package sites

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/report"
	"github.com/tphakala/trapstats/internal/runtime"
)

// Command creates the sites command
func Command(_ *runtime.Context) *cobra.Command {
	var (
		dir    string
		site   string
		siteB  string
		filter string
		format string
	)

	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Compare diversity between two sites",
		Long: `Load the CSV exports from a directory and compare the Shannon, Simpson
and richness values of two sites for one species filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := loader.LoadAllCSV(cmd.Context(), dir)
			if err != nil {
				return err
			}
			cmp := loader.CompareSites(data.DetailedMetrics, site, siteB, filter)
			if cmp == nil {
				return errors.InvalidParameter("sites", "site", site,
					"no detailed metrics for %q and %q with filter %q", site, siteB, filter)
			}
			return report.WriteSiteComparison(cmd.OutOrStdout(), f, cmp)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory holding the CSV exports")
	cmd.Flags().StringVar(&site, "site", "", "First site")
	cmd.Flags().StringVar(&siteB, "site-b", "", "Second site")
	cmd.Flags().StringVar(&filter, "filter", loader.DefaultMetricsFilter, "Species filter of the metrics rows")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, yaml")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("site-b")

	return cmd
}
