package report

import (
	"io"

	"github.com/tphakala/trapstats/internal/analysis"
	"github.com/tphakala/trapstats/internal/analysis/ml"
	"github.com/tphakala/trapstats/internal/loader"
)

// NewForecastReport expands a forecast result with explicit bounds
func NewForecastReport(history []float64, result ml.ForecastResult) *ForecastReport {
	r := &ForecastReport{
		History:    history,
		Forecast:   result.Forecast,
		Confidence: result.Confidence,
		Lower:      make([]float64, len(result.Forecast)),
		Upper:      make([]float64, len(result.Forecast)),
	}
	for i := range result.Forecast {
		r.Lower[i] = result.Lower(i)
		r.Upper[i] = result.Upper(i)
	}
	return r
}

// WriteAnalysis renders r in format
func WriteAnalysis(w io.Writer, format Format, r *analysis.Report) error {
	if format == FormatTable {
		return WriteAnalysisTable(w, r)
	}
	return Encode(w, format, r)
}

// WriteML renders r in format
func WriteML(w io.Writer, format Format, r *analysis.MLReport) error {
	if format == FormatTable {
		return WriteMLTable(w, r)
	}
	return Encode(w, format, r)
}

// WriteForecast renders r in format
func WriteForecast(w io.Writer, format Format, r *ForecastReport) error {
	if format == FormatTable {
		return WriteForecastTable(w, r)
	}
	return Encode(w, format, r)
}

// WriteSiteComparison renders c in format
func WriteSiteComparison(w io.Writer, format Format, c *loader.SiteComparison) error {
	if format == FormatTable {
		return WriteSiteComparisonTable(w, c)
	}
	return Encode(w, format, c)
}
