// Package analysis runs the biodiversity statistics end to end for one data
// load: loading, aggregate statistics, the multivariate species analysis and
// forecasting. Every stage is timed and counted through a metrics.Recorder.
package analysis

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tphakala/trapstats/internal/analysis/biodiversity"
	"github.com/tphakala/trapstats/internal/analysis/ml"
	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/logger"
	"github.com/tphakala/trapstats/internal/observability"
	"github.com/tphakala/trapstats/internal/observability/metrics"
)

// SpeciesRarity grades one species
type SpeciesRarity struct {
	Species string              `json:"species" yaml:"species"`
	Count   int                 `json:"count" yaml:"count"`
	Rarity  biodiversity.Rarity `json:"rarity" yaml:"rarity"`
}

// Report is the aggregate statistics of a dataset
type Report struct {
	RunID     string                                                 `json:"run_id" yaml:"run_id"`
	Source    loader.Source                                          `json:"source" yaml:"source"`
	Analysis  *detection.AnalysisData                                `json:"analysis" yaml:"analysis"`
	Diversity biodiversity.DiversityMetrics                          `json:"diversity" yaml:"diversity"`
	Temporal  biodiversity.TemporalPattern                           `json:"temporal" yaml:"temporal"`
	ByType    map[detection.SpeciesType]biodiversity.TemporalPattern `json:"temporal_by_type" yaml:"temporal_by_type"`
	Rarity    []SpeciesRarity                                        `json:"rarity" yaml:"rarity"`
}

// SpeciesAnomaly is the anomaly score of one species row
type SpeciesAnomaly struct {
	Species string `json:"species" yaml:"species"`
	ml.AnomalyScore `yaml:",inline"`
}

// MLReport is the multivariate analysis of the species feature space
type MLReport struct {
	RunID        string                         `json:"run_id" yaml:"run_id"`
	Labels       []string                       `json:"labels" yaml:"labels"`
	FeatureNames []string                       `json:"feature_names" yaml:"feature_names"`
	Features     []biodiversity.SpeciesFeatures `json:"features" yaml:"features"`
	Normalized   ml.Matrix                      `json:"normalized" yaml:"normalized"`
	PCA          ml.PCAResult                   `json:"pca" yaml:"pca"`
	Clusters     ml.ClusterResult               `json:"clusters" yaml:"clusters"`
	ClusterTypes [][]int                        `json:"cluster_types" yaml:"cluster_types"` // [type][cluster], types in detection.AllSpeciesTypes order
	Anomalies    []SpeciesAnomaly               `json:"anomalies" yaml:"anomalies"`
	Importance   []ml.FeatureImportance         `json:"importance" yaml:"importance"`
}

// AnomalyCount returns the number of flagged species
func (r *MLReport) AnomalyCount() int {
	n := 0
	for _, a := range r.Anomalies {
		if a.IsAnomaly {
			n++
		}
	}
	return n
}

// Pipeline runs the analysis stages with fixed options. A Pipeline carries a
// run ID that tags its log lines; create one per invocation.
type Pipeline struct {
	opts     Options
	runID    string
	recorder metrics.Recorder
	gauges   *metrics.AnalysisMetrics // nil when metrics are disabled
}

// NewPipeline creates a pipeline. m may be nil to disable metrics.
func NewPipeline(opts Options, m *observability.Metrics) *Pipeline {
	p := &Pipeline{
		opts:     opts,
		runID:    uuid.NewString(),
		recorder: metrics.NoOpRecorder{},
	}
	if m != nil {
		p.recorder = m.Analysis
		p.gauges = m.Analysis
		if opts.SunCalc != nil {
			opts.SunCalc.SetMetrics(m.SunCalc)
		}
	}
	return p
}

// SetRecorder routes stage counts and timings to r instead of the metrics
// given to NewPipeline. A nil r disables recording. Gauges are unaffected.
func (p *Pipeline) SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoOpRecorder{}
	}
	p.recorder = r
}

// RunID identifies this pipeline's run in logs and reports
func (p *Pipeline) RunID() string {
	return p.runID
}

// Options returns the options the pipeline was created with
func (p *Pipeline) Options() Options {
	return p.opts
}

func (p *Pipeline) log(ctx context.Context) logger.Logger {
	return getLog().WithContext(logger.WithTraceID(ctx, p.runID))
}

// track times fn and records its outcome under op
func (p *Pipeline) track(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.recorder.RecordDuration(op, time.Since(start).Seconds())

	if err != nil {
		p.recorder.RecordOperation(op, metrics.StatusError)
		p.recorder.RecordError(op, errorType(err))
		return err
	}
	p.recorder.RecordOperation(op, metrics.StatusSuccess)
	return nil
}

func errorType(err error) string {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.GetCategory()
	}
	return string(errors.CategoryGeneric)
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.New(err).
			Component(componentName).
			Category(errors.CategoryCancellation).
			Build()
	}
	return nil
}

// Load produces the dataset named by the options
func (p *Pipeline) Load(ctx context.Context) (*loader.Dataset, error) {
	var ds *loader.Dataset
	err := p.track(metrics.OpLoad, func() error {
		if err := checkContext(ctx); err != nil {
			return err
		}

		switch p.opts.Source {
		case loader.SourceMock, "":
			ds = loader.GenerateMock(p.opts.MockSeed)
			return nil
		case loader.SourceGeoJSON:
			if p.opts.Input == "" {
				return errors.InvalidParameter(componentName, "input", p.opts.Input,
					"GeoJSON source needs an input file")
			}
			doc, err := loader.LoadGeoJSONFile(p.opts.Input)
			if err != nil {
				return err
			}
			ds, err = loader.ProcessGeoJSON(doc, loader.ProcessOptions{
				RareBelow:   p.opts.RareBelow,
				CommonAbove: p.opts.CommonAbove,
				Location:    p.opts.Location,
				SunCalc:     p.opts.SunCalc,
			})
			return err
		default:
			return errors.InvalidParameter(componentName, "source", p.opts.Source,
				"unknown data source %q", p.opts.Source)
		}
	})
	if err != nil {
		return nil, err
	}

	if p.gauges != nil {
		p.gauges.SetDatasetSize(string(ds.Source), len(ds.Detections), ds.Analysis.Species.Len())
	}
	p.log(ctx).Info("dataset loaded",
		logger.String("source", string(ds.Source)),
		logger.Int("detections", len(ds.Detections)),
		logger.Int("species", ds.Analysis.Species.Len()))

	return ds, nil
}

// Analyze computes diversity, temporal activity and rarity for ds
func (p *Pipeline) Analyze(ctx context.Context, ds *loader.Dataset) (*Report, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:    p.runID,
		Source:   ds.Source,
		Analysis: &ds.Analysis,
	}

	err := p.track(metrics.OpDiversity, func() error {
		var err error
		report.Diversity, err = biodiversity.Diversity(ds.Analysis.Species)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.track(metrics.OpTemporal, func() error {
		report.Temporal = biodiversity.TemporalPatterns(ds.Analysis.Hourly)
		report.ByType = make(map[detection.SpeciesType]biodiversity.TemporalPattern)
		for kind, dets := range detection.GroupByType(ds.Detections) {
			_, hourly, _ := detection.Aggregate(dets)
			report.ByType[kind] = biodiversity.TemporalPatterns(hourly)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, sc := range ds.Analysis.Species.Sorted() {
		report.Rarity = append(report.Rarity, SpeciesRarity{
			Species: sc.Name,
			Count:   sc.Count,
			Rarity:  biodiversity.RarityOf(sc.Count),
		})
	}

	if p.gauges != nil {
		d := report.Diversity
		p.gauges.SetDiversity(d.Shannon, d.Simpson, d.Evenness)
	}
	p.log(ctx).Info("analysis complete",
		logger.Int("richness", report.Diversity.Richness),
		logger.Float64("shannon", report.Diversity.Shannon),
		logger.Float64("simpson", report.Diversity.Simpson),
		logger.Int("peak_hour", report.Temporal.PeakHour))

	return report, nil
}

// ML extracts species features and runs normalization, PCA, k-means,
// anomaly scoring and feature importance over them. Every model sees the
// min-max normalized matrix.
func (p *Pipeline) ML(ctx context.Context, ds *loader.Dataset) (*MLReport, error) {
	report := &MLReport{
		RunID:        p.runID,
		FeatureNames: biodiversity.FeatureNames,
	}

	var raw ml.Matrix
	steps := []struct {
		op string
		fn func() error
	}{
		{metrics.OpFeatures, func() error {
			inputs := biodiversity.FeatureInputsFromDetections(ds.Detections, nil)
			report.Features = biodiversity.ExtractFeatures(ds.Analysis.Species, inputs)
			raw, report.Labels = biodiversity.FeatureMatrix(report.Features)
			if len(raw) == 0 {
				return errors.InvalidInput(componentName, "dataset has no species to analyse")
			}
			return nil
		}},
		{metrics.OpNormalize, func() error {
			var err error
			report.Normalized, err = ml.Normalize(raw)
			return err
		}},
		{metrics.OpPCA, func() error {
			components := min(p.opts.PCAComponents, len(biodiversity.FeatureNames))
			var err error
			report.PCA, err = ml.PCA(report.Normalized, components, p.opts.PCA)
			return err
		}},
		{metrics.OpKMeans, func() error {
			k := p.opts.Clusters
			if rows := len(report.Normalized); k > rows {
				p.log(ctx).Warn("fewer species than clusters, reducing k",
					logger.Int("k", k),
					logger.Int("species", rows))
				k = rows
			}
			var err error
			report.Clusters, err = ml.KMeans(report.Normalized, k, p.opts.KMeans)
			if err != nil {
				return err
			}
			report.ClusterTypes, err = clusterTypes(report.Labels, report.Clusters, ds.Detections)
			return err
		}},
		{metrics.OpAnomaly, func() error {
			scores, err := ml.DetectAnomalies(report.Normalized, p.opts.AnomalyThreshold)
			if err != nil {
				return err
			}
			report.Anomalies = make([]SpeciesAnomaly, len(scores))
			for i, s := range scores {
				report.Anomalies[i] = SpeciesAnomaly{Species: report.Labels[i], AnomalyScore: s}
			}
			return nil
		}},
		{metrics.OpImportance, func() error {
			var err error
			report.Importance, err = ml.RankFeatures(report.Normalized, biodiversity.FeatureNames)
			return err
		}},
	}

	for _, step := range steps {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if err := p.track(step.op, step.fn); err != nil {
			return nil, err
		}
	}

	if p.gauges != nil {
		p.gauges.SetExplainedVariance(report.PCA.ExplainedVariance)
		p.gauges.SetClusterIterations(report.Clusters.Iterations)
		p.gauges.SetAnomaliesFlagged(report.AnomalyCount())
	}
	p.log(ctx).Info("species analysis complete",
		logger.Int("species", len(report.Labels)),
		logger.Int("clusters", len(report.Clusters.Centroids)),
		logger.Bool("converged", report.Clusters.Converged),
		logger.Int("anomalies", report.AnomalyCount()))

	return report, nil
}

// clusterTypes cross-tabulates cluster assignments against the species type
// of each row. Types come from the detections, falling back to the name
// classifier for species without any.
func clusterTypes(labels []string, clusters ml.ClusterResult, dets []detection.Detection) ([][]int, error) {
	kinds := make(map[string]detection.SpeciesType, len(labels))
	for i := range dets {
		if _, ok := kinds[dets[i].Species]; !ok && dets[i].Type.Valid() {
			kinds[dets[i].Species] = dets[i].Type
		}
	}

	truth := make([]int, len(labels))
	for i, name := range labels {
		kind, ok := kinds[name]
		if !ok {
			kind = detection.ClassifySpecies(name)
		}
		truth[i] = slices.Index(detection.AllSpeciesTypes, kind)
	}

	classes := max(len(clusters.Centroids), len(detection.AllSpeciesTypes))
	return ml.ConfusionMatrix(clusters.Assignments, truth, classes)
}

// Forecast extends history with the configured steps and window
func (p *Pipeline) Forecast(ctx context.Context, history []float64) (ml.ForecastResult, error) {
	if err := checkContext(ctx); err != nil {
		return ml.ForecastResult{}, err
	}

	var result ml.ForecastResult
	err := p.track(metrics.OpForecast, func() error {
		var err error
		result, err = ml.Forecast(history, p.opts.ForecastSteps, p.opts.ForecastWindow)
		return err
	})
	if err != nil {
		return ml.ForecastResult{}, err
	}

	p.log(ctx).Info("forecast complete",
		logger.Int("history", len(history)),
		logger.Int("steps", len(result.Forecast)))
	return result, nil
}
