// Package analyze implements the analyze command
package analyze

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/internal/report"
	"github.com/tphakala/trapstats/internal/runtime"
)

// Command creates the analyze command
func Command(rt *runtime.Context) *cobra.Command {
	var (
		src    runtime.SourceFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute diversity, activity and rarity statistics",
		Long: `Load a dataset and report its summary, Shannon and Simpson diversity,
night and day activity per species type and the rarity grade of every species.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			p, ds, err := rt.Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			r, err := p.Analyze(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return report.WriteAnalysis(cmd.OutOrStdout(), f, r)
		},
	}

	src.Register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, yaml")

	return cmd
}
