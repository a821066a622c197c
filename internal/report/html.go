package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tphakala/trapstats/internal/analysis"
	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/logger"
)

const chartWidth = "900px"

// HTMLInput is the content of an HTML report. ML and Forecast are optional.
type HTMLInput struct {
	Title    string
	Analysis *analysis.Report
	ML       *analysis.MLReport
	Forecast *ForecastReport
}

// RenderHTML writes a standalone chart page: hourly activity, species
// distribution, the PCA projection coloured by cluster and the forecast.
// Species names and the title are HTML-escaped before they reach the page.
func RenderHTML(w io.Writer, in HTMLInput) error {
	if in.Analysis == nil {
		return errors.InvalidInput(componentName, "HTML report needs analysis results")
	}

	title := in.Title
	if title == "" {
		title = "Camera trap biodiversity report"
	}

	page := components.NewPage()
	page.PageTitle = loader.SanitizeInput(title)
	page.AddCharts(hourlyChart(in.Analysis), speciesChart(in.Analysis))
	if in.ML != nil {
		page.AddCharts(pcaChart(in.ML))
	}
	if in.Forecast != nil {
		page.AddCharts(forecastChart(in.Forecast))
	}

	if err := page.Render(w); err != nil {
		return errors.Newf("failed to render HTML report: %w", err).
			Component(componentName).
			Category(errors.CategoryProcessing).
			Build()
	}

	getLog().Debug("rendered HTML report",
		logger.Bool("ml", in.ML != nil),
		logger.Bool("forecast", in.Forecast != nil))
	return nil
}

func initOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func hourlyChart(r *analysis.Report) *charts.Bar {
	hours := make([]string, detection.HoursPerDay)
	data := make([]opts.BarData, detection.HoursPerDay)
	for h := range detection.HoursPerDay {
		hours[h] = fmt.Sprintf("%02d:00", h)
		data[h] = opts.BarData{Value: r.Analysis.Hourly[h]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(initOpts("Hourly Activity",
		fmt.Sprintf("peak %02d:00, %d night / %d day detections",
			r.Temporal.PeakHour, r.Temporal.NightCount, r.Temporal.DayCount))...)
	bar.SetXAxis(hours).AddSeries("detections", data)
	return bar
}

func speciesChart(r *analysis.Report) *charts.Pie {
	data := make([]opts.PieData, 0, r.Analysis.Species.Len())
	for name, count := range r.Analysis.Species.All() {
		data = append(data, opts.PieData{Name: loader.SanitizeInput(name), Value: count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(initOpts("Species Distribution",
		fmt.Sprintf("Shannon %.3f, Simpson %.3f, richness %d",
			r.Diversity.Shannon, r.Diversity.Simpson, r.Diversity.Richness))...)
	pie.AddSeries("species", data)
	return pie
}

func pcaChart(r *analysis.MLReport) *charts.Scatter {
	clusters := make(map[int][]opts.ScatterData)
	for i, row := range r.PCA.Projected {
		y := 0.0
		if len(row) > 1 {
			y = row[1]
		}
		c := r.Clusters.Assignments[i]
		clusters[c] = append(clusters[c], opts.ScatterData{
			Name:  loader.SanitizeInput(r.Labels[i]),
			Value: []any{row[0], y},
		})
	}

	subtitle := ""
	if len(r.PCA.ExplainedVariance) > 1 {
		subtitle = fmt.Sprintf("PC1 %.1f%%, PC2 %.1f%% of variance",
			r.PCA.ExplainedVariance[0]*100, r.PCA.ExplainedVariance[1]*100)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(initOpts("Species Clusters (PCA)", subtitle)...)
	for c := range len(r.Clusters.Centroids) {
		scatter.AddSeries("cluster "+strconv.Itoa(c+1), clusters[c],
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	}
	return scatter
}

func forecastChart(r *ForecastReport) *charts.Line {
	n := len(r.History) + len(r.Forecast)
	x := make([]string, n)
	history := make([]opts.LineData, n)
	forecast := make([]opts.LineData, n)
	lower := make([]opts.LineData, n)
	upper := make([]opts.LineData, n)

	for i := range n {
		x[i] = strconv.Itoa(i + 1)
		if i < len(r.History) {
			history[i] = opts.LineData{Value: r.History[i]}
			forecast[i] = opts.LineData{Value: "-"}
			lower[i] = opts.LineData{Value: "-"}
			upper[i] = opts.LineData{Value: "-"}
			continue
		}
		j := i - len(r.History)
		history[i] = opts.LineData{Value: "-"}
		forecast[i] = opts.LineData{Value: r.Forecast[j]}
		lower[i] = opts.LineData{Value: r.Lower[j]}
		upper[i] = opts.LineData{Value: r.Upper[j]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(initOpts("Detection Forecast", "moving average with 95% band")...)
	line.SetXAxis(x).
		AddSeries("history", history).
		AddSeries("forecast", forecast).
		AddSeries("lower", lower).
		AddSeries("upper", upper)
	return line
}
