// Package forecast implements the forecast command
package forecast

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/internal/analysis"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/report"
	"github.com/tphakala/trapstats/internal/runtime"
)

// Command creates the forecast command
func Command(rt *runtime.Context) *cobra.Command {
	var (
		input  string
		format string
		steps  int
		window int
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast detections from a monthly trends CSV",
		Long: `Read month,count rows and extend the series with a moving average
forecast and 95% confidence bounds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			trends, err := loader.LoadCSVFile(input, loader.ParseMonthlyTrends)
			if err != nil {
				return err
			}

			p, err := rt.NewPipeline(func(o *analysis.Options) {
				if cmd.Flags().Changed("steps") {
					o.ForecastSteps = steps
				}
				if cmd.Flags().Changed("window") {
					o.ForecastWindow = window
				}
			})
			if err != nil {
				return err
			}

			history := loader.TrendCounts(trends)
			result, err := p.Forecast(cmd.Context(), history)
			if err != nil {
				return err
			}
			return report.WriteForecast(cmd.OutOrStdout(), f, report.NewForecastReport(history, result))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to monthly_trends.csv")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, yaml")
	cmd.Flags().IntVar(&steps, "steps", 7, "Number of months to forecast (overrides analysis.forecast.steps)")
	cmd.Flags().IntVar(&window, "window", 5, "Moving average window (overrides analysis.forecast.window)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
