package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tphakala/trapstats/internal/analysis"
	"github.com/tphakala/trapstats/internal/analysis/biodiversity"
	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/loader"
)

// ForecastReport pairs a history with its forecast and bounds
type ForecastReport struct {
	History    []float64 `json:"history" yaml:"history"`
	Forecast   []float64 `json:"forecast" yaml:"forecast"`
	Confidence []float64 `json:"confidence" yaml:"confidence"`
	Lower      []float64 `json:"lower" yaml:"lower"`
	Upper      []float64 `json:"upper" yaml:"upper"`
}

// tableWriter collects the first write error so table code can stay linear
type tableWriter struct {
	tw  *tabwriter.Writer
	err error
}

func newTableWriter(w io.Writer) *tableWriter {
	return &tableWriter{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (t *tableWriter) row(cells ...any) {
	if t.err != nil {
		return
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case float64:
			parts[i] = fmt.Sprintf("%.4f", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	_, t.err = fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *tableWriter) section(title string) {
	if t.err != nil {
		return
	}
	t.flush()
	if t.err == nil {
		_, t.err = fmt.Fprintf(t.tw, "\n== %s ==\n", title)
	}
}

func (t *tableWriter) flush() {
	if err := t.tw.Flush(); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *tableWriter) close() error {
	t.flush()
	if t.err != nil {
		return encodeError(t.err, FormatTable)
	}
	return nil
}

// WriteAnalysisTable prints summary, diversity, activity, rarity and any
// hypotheses of r.
func WriteAnalysisTable(w io.Writer, r *analysis.Report) error {
	t := newTableWriter(w)
	s := r.Analysis.Summary

	t.section("Summary")
	t.row("Source", r.Source)
	t.row("Run ID", r.RunID)
	t.row("Detections", s.Total)
	t.row("Species", s.SpeciesCount)
	t.row("Hotspots", s.Hotspots)
	if !s.Start.IsZero() {
		t.row("Period", detection.FormatDateRange(s.Start, s.End))
		t.row("Monitoring days", s.MonitoringDays)
	}

	t.section("Diversity")
	t.row("Richness", r.Diversity.Richness)
	t.row("Shannon", r.Diversity.Shannon)
	t.row("Simpson", r.Diversity.Simpson)
	t.row("Evenness", r.Diversity.Evenness)

	t.section("Activity")
	t.row("GROUP", "NIGHT", "DAY", "RATIO", "PEAK HOUR")
	activityRow(t, "all", r.Temporal)
	for _, kind := range detection.AllSpeciesTypes {
		if p, ok := r.ByType[kind]; ok {
			activityRow(t, string(kind), p)
		}
	}

	t.section("Species")
	t.row("SPECIES", "COUNT", "RARITY")
	for _, sr := range r.Rarity {
		t.row(sr.Species, sr.Count, sr.Rarity)
	}

	if len(r.Analysis.Hypotheses) > 0 {
		t.section("Hypotheses")
		t.row("ID", "RESULT", "CONFIDENCE", "TITLE")
		for _, h := range r.Analysis.Hypotheses {
			t.row(h.ID, h.Result, fmt.Sprintf("%.0f%%", h.Confidence*100), h.Title)
		}
	}

	return t.close()
}

func activityRow(t *tableWriter, group string, p biodiversity.TemporalPattern) {
	ratio := fmt.Sprintf("%.2f", p.Ratio)
	if p.RatioCapped {
		ratio = "night only"
	}
	t.row(group, p.NightCount, p.DayCount, ratio, fmt.Sprintf("%02d:00", p.PeakHour))
}

// WriteMLTable prints the features, PCA, clusters, anomalies and importance of r
func WriteMLTable(w io.Writer, r *analysis.MLReport) error {
	t := newTableWriter(w)

	t.section("Species features")
	header := append([]any{"SPECIES"}, upper(r.FeatureNames)...)
	t.row(header...)
	for i := range r.Features {
		f := &r.Features[i]
		cells := []any{f.Name}
		for _, v := range f.Vector() {
			cells = append(cells, v)
		}
		t.row(cells...)
	}

	t.section("PCA")
	for i, ev := range r.PCA.ExplainedVariance {
		t.row(fmt.Sprintf("PC%d", i+1), fmt.Sprintf("%.1f%%", ev*100))
	}

	t.section("Clusters")
	t.row("SPECIES", "CLUSTER", "PC1", "PC2", "ANOMALY SCORE", "ANOMALY")
	for i, label := range r.Labels {
		pc1, pc2 := 0.0, 0.0
		if i < len(r.PCA.Projected) {
			row := r.PCA.Projected[i]
			pc1 = row[0]
			if len(row) > 1 {
				pc2 = row[1]
			}
		}
		anomaly := r.Anomalies[i]
		t.row(label, r.Clusters.Assignments[i], pc1, pc2, anomaly.Score, anomaly.IsAnomaly)
	}
	t.row("iterations", r.Clusters.Iterations)
	t.row("converged", r.Clusters.Converged)

	if len(r.ClusterTypes) > 0 {
		t.section("Clusters by type")
		header := []any{"TYPE"}
		for c := range r.ClusterTypes[0] {
			header = append(header, fmt.Sprintf("C%d", c))
		}
		t.row(header...)
		for i, counts := range r.ClusterTypes {
			if i >= len(detection.AllSpeciesTypes) {
				break
			}
			cells := []any{detection.AllSpeciesTypes[i]}
			for _, n := range counts {
				cells = append(cells, n)
			}
			t.row(cells...)
		}
	}

	t.section("Feature importance")
	for _, fi := range r.Importance {
		t.row(fi.Name, fi.Importance)
	}

	return t.close()
}

// WriteForecastTable prints each forecast step with its confidence bounds
func WriteForecastTable(w io.Writer, r *ForecastReport) error {
	t := newTableWriter(w)

	t.section("Forecast")
	t.row("STEP", "FORECAST", "LOWER", "UPPER")
	for i, v := range r.Forecast {
		t.row(i+1, v, r.Lower[i], r.Upper[i])
	}

	return t.close()
}

// WriteSiteComparisonTable prints two sites' metrics and their differences
func WriteSiteComparisonTable(w io.Writer, c *loader.SiteComparison) error {
	t := newTableWriter(w)

	t.section("Site comparison (" + c.Site1.Filter + ")")
	t.row("METRIC", c.Site1.Site, c.Site2.Site, "DIFFERENCE")
	t.row("Shannon", c.Site1.Shannon, c.Site2.Shannon, c.ShannonDiff)
	t.row("Simpson", c.Site1.Simpson, c.Site2.Simpson, c.SimpsonDiff)
	t.row("Richness", c.Site1.Richness, c.Site2.Richness, c.RichnessDiff)

	return t.close()
}

func upper(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = strings.ToUpper(n)
	}
	return out
}
