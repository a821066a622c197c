package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

// MonthlyTrend is one row of the monthly detection trend export
type MonthlyTrend struct {
	Month string  `json:"month" yaml:"month"`
	Count float64 `json:"count" yaml:"count"`
}

// SiteDiversity is one row of the per-site Shannon index export
type SiteDiversity struct {
	Site    string  `json:"site" yaml:"site"`
	Shannon float64 `json:"shannon" yaml:"shannon"`
}

// DetailedMetrics is one row of the per-site, per-filter diversity export
type DetailedMetrics struct {
	Site     string  `json:"site" yaml:"site"`
	Filter   string  `json:"filter" yaml:"filter"`
	Shannon  float64 `json:"shannon" yaml:"shannon"`
	Simpson  float64 `json:"simpson" yaml:"simpson"`
	Richness int     `json:"richness" yaml:"richness"`
}

// DefaultMetricsFilter selects the unfiltered metrics rows
const DefaultMetricsFilter = "all species"

// CSVFiles names the three exports inside a directory
type CSVFiles struct {
	MonthlyTrends   string
	SiteDiversity   string
	DetailedMetrics string
}

// DefaultCSVFiles are the file names written by the export tooling
func DefaultCSVFiles() CSVFiles {
	return CSVFiles{
		MonthlyTrends:   "monthly_trends.csv",
		SiteDiversity:   "site_diversity.csv",
		DetailedMetrics: "detailed_metrics.csv",
	}
}

// CSVData bundles the three CSV exports
type CSVData struct {
	MonthlyTrends   []MonthlyTrend    `json:"monthly_trends" yaml:"monthly_trends"`
	SiteDiversity   []SiteDiversity   `json:"site_diversity" yaml:"site_diversity"`
	DetailedMetrics []DetailedMetrics `json:"detailed_metrics" yaml:"detailed_metrics"`
}

// SiteComparison is the difference of two sites' metrics, first minus second
type SiteComparison struct {
	Site1        DetailedMetrics `json:"site1" yaml:"site1"`
	Site2        DetailedMetrics `json:"site2" yaml:"site2"`
	ShannonDiff  float64         `json:"shannon_diff" yaml:"shannon_diff"`
	SimpsonDiff  float64         `json:"simpson_diff" yaml:"simpson_diff"`
	RichnessDiff int             `json:"richness_diff" yaml:"richness_diff"`
}

// readRows returns the data rows of a CSV export with the header dropped.
// Every row must have at least minFields fields; blank lines are skipped.
func readRows(r io.Reader, name string, minFields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, csvError(name, line, "malformed CSV: %v", err)
		}
		if line == 1 {
			continue
		}
		if len(record) < minFields {
			return nil, csvError(name, line, "expected %d fields, got %d", minFields, len(record))
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func csvError(name string, line int, format string, args ...any) error {
	return errors.InvalidInput(componentName, name+" line %d: "+format, append([]any{line}, args...)...)
}

func parseFloat(name string, line int, field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, csvError(name, line, "%s %q is not a number", field, s)
	}
	return v, nil
}

// ParseMonthlyTrends reads month,count rows
func ParseMonthlyTrends(r io.Reader) ([]MonthlyTrend, error) {
	const name = "monthly trends"
	rows, err := readRows(r, name, 2)
	if err != nil {
		return nil, err
	}

	out := make([]MonthlyTrend, 0, len(rows))
	for i, row := range rows {
		count, err := parseFloat(name, i+2, "count", row[1])
		if err != nil {
			return nil, err
		}
		out = append(out, MonthlyTrend{Month: row[0], Count: count})
	}
	return out, nil
}

// ParseSiteDiversity reads site,shannon rows
func ParseSiteDiversity(r io.Reader) ([]SiteDiversity, error) {
	const name = "site diversity"
	rows, err := readRows(r, name, 2)
	if err != nil {
		return nil, err
	}

	out := make([]SiteDiversity, 0, len(rows))
	for i, row := range rows {
		shannon, err := parseFloat(name, i+2, "shannon", row[1])
		if err != nil {
			return nil, err
		}
		out = append(out, SiteDiversity{Site: row[0], Shannon: shannon})
	}
	return out, nil
}

// ParseDetailedMetrics reads site,filter,shannon,simpson,richness rows
func ParseDetailedMetrics(r io.Reader) ([]DetailedMetrics, error) {
	const name = "detailed metrics"
	rows, err := readRows(r, name, 5)
	if err != nil {
		return nil, err
	}

	out := make([]DetailedMetrics, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		shannon, err := parseFloat(name, line, "shannon", row[2])
		if err != nil {
			return nil, err
		}
		simpson, err := parseFloat(name, line, "simpson", row[3])
		if err != nil {
			return nil, err
		}
		richness, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, csvError(name, line, "richness %q is not an integer", row[4])
		}
		out = append(out, DetailedMetrics{
			Site:     row[0],
			Filter:   row[1],
			Shannon:  shannon,
			Simpson:  simpson,
			Richness: richness,
		})
	}
	return out, nil
}

// TrendCounts returns the counts of trends in order, ready for forecasting
func TrendCounts(trends []MonthlyTrend) []float64 {
	out := make([]float64, len(trends))
	for i, t := range trends {
		out[i] = t.Count
	}
	return out
}

// LoadCSVFile opens path after checking its name and size and parses it with parse
func LoadCSVFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ValidateDataFileName(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileError(err, path, 0)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.FileError(err, path, 0)
	}
	if err := ValidateFileSize(info.Size(), DefaultMaxFileSize); err != nil {
		return nil, err
	}
	return parse(f)
}

// LoadAllCSV loads the three exports from dir with the default file names
func LoadAllCSV(ctx context.Context, dir string) (*CSVData, error) {
	return LoadAllCSVFiles(ctx, dir, DefaultCSVFiles())
}

// LoadAllCSVFiles loads the three exports concurrently. The first failure
// cancels the others and is returned.
func LoadAllCSVFiles(ctx context.Context, dir string, files CSVFiles) (*CSVData, error) {
	var data CSVData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := LoadCSVFile(filepath.Join(dir, files.MonthlyTrends), ParseMonthlyTrends)
		data.MonthlyTrends = rows
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := LoadCSVFile(filepath.Join(dir, files.SiteDiversity), ParseSiteDiversity)
		data.SiteDiversity = rows
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := LoadCSVFile(filepath.Join(dir, files.DetailedMetrics), ParseDetailedMetrics)
		data.DetailedMetrics = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	getLog().Info("loaded CSV exports",
		logger.String("dir", dir),
		logger.Int("monthly_trends", len(data.MonthlyTrends)),
		logger.Int("site_diversity", len(data.SiteDiversity)),
		logger.Int("detailed_metrics", len(data.DetailedMetrics)))
	return &data, nil
}

// MetricsForSite finds the row for site and filter. An empty filter means
// DefaultMetricsFilter.
func MetricsForSite(metrics []DetailedMetrics, site, filter string) (DetailedMetrics, bool) {
	if filter == "" {
		filter = DefaultMetricsFilter
	}
	for _, m := range metrics {
		if m.Site == site && m.Filter == filter {
			return m, true
		}
	}
	return DetailedMetrics{}, false
}

// CompareSites subtracts the metrics of site2 from site1. It returns nil
// when either site has no row for filter.
func CompareSites(metrics []DetailedMetrics, site1, site2, filter string) *SiteComparison {
	m1, ok := MetricsForSite(metrics, site1, filter)
	if !ok {
		return nil
	}
	m2, ok := MetricsForSite(metrics, site2, filter)
	if !ok {
		return nil
	}
	return &SiteComparison{
		Site1:        m1,
		Site2:        m2,
		ShannonDiff:  m1.Shannon - m2.Shannon,
		SimpsonDiff:  m1.Simpson - m2.Simpson,
		RichnessDiff: m1.Richness - m2.Richness,
	}
}
