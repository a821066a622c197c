// Package htmlreport implements the report command
package htmlreport

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/report"
	"github.com/tphakala/trapstats/internal/runtime"
)

// Command creates the report command
func Command(rt *runtime.Context) *cobra.Command {
	var (
		src    runtime.SourceFlags
		out    string
		trends string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render an HTML chart report",
		Long: `Run the statistics, species analysis and forecast over a dataset and
write them as a standalone HTML page of charts. The forecast uses the
monthly trends CSV when given, otherwise the dataset's own monthly counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, ds, err := rt.Load(ctx, src)
			if err != nil {
				return err
			}
			stats, err := p.Analyze(ctx, ds)
			if err != nil {
				return err
			}
			mlReport, err := p.ML(ctx, ds)
			if err != nil {
				return err
			}

			history := detection.MonthlyCounts(ds.Detections)
			if trends != "" {
				rows, err := loader.LoadCSVFile(trends, loader.ParseMonthlyTrends)
				if err != nil {
					return err
				}
				history = loader.TrendCounts(rows)
			}
			result, err := p.Forecast(ctx, history)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return errors.FileError(err, out, 0)
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.FileError(err, out, 0)
			}
			defer f.Close()

			if err := report.RenderHTML(f, report.HTMLInput{
				Title:    title,
				Analysis: stats,
				ML:       mlReport,
				Forecast: report.NewForecastReport(history, result),
			}); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return errors.FileError(err, out, 0)
			}

			cmd.Printf("report written to %s\n", out)
			return nil
		},
	}

	src.Register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "report.html", "Output HTML file")
	cmd.Flags().StringVar(&trends, "trends", "", "Optional monthly_trends.csv used for the forecast")
	cmd.Flags().StringVar(&title, "title", "", "Page title")

	return cmd
}
