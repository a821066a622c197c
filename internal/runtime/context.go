// Package runtime holds the state shared by one CLI invocation: loaded
// settings, build metadata, the logger and the optional metrics registry.
package runtime

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/tphakala/trapstats/internal/analysis"
	"github.com/tphakala/trapstats/internal/buildinfo"
	"github.com/tphakala/trapstats/internal/conf"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/logger"
	"github.com/tphakala/trapstats/internal/observability"
	"github.com/tphakala/trapstats/internal/telemetry"
)

const componentName = "runtime"

// Context is created once in main and handed to every subcommand. Settings
// stays nil until Setup runs.
type Context struct {
	Settings *conf.Settings
	Build    *buildinfo.Context

	// Metrics is nil unless a metrics textfile is configured
	Metrics *observability.Metrics

	log *logger.CentralLogger
}

// New creates a context carrying build metadata
func New(build *buildinfo.Context) *Context {
	return &Context{Build: build}
}

// Setup installs settings, the global logger, metrics and telemetry
func (c *Context) Setup(settings *conf.Settings) error {
	if settings == nil {
		return errors.Newf("settings cannot be nil").
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}
	c.Settings = settings

	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = "debug"
		}
	}

	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return errors.New(err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}
	logger.SetGlobal(cl)
	c.log = cl

	if settings.Metrics.Textfile != "" {
		m, err := observability.NewMetrics()
		if err != nil {
			return err
		}
		c.Metrics = m
	}

	if _, err := telemetry.Init(settings.Telemetry, c.Build.GetVersion()); err != nil {
		// reporting is optional, the run goes on without it
		cl.Module(componentName).Warn("telemetry disabled", logger.Error(err))
	}

	return nil
}

// NewPipeline builds an analysis pipeline from the loaded settings.
// configure functions run in order and may override single options.
func (c *Context) NewPipeline(configure ...func(*analysis.Options)) (*analysis.Pipeline, error) {
	opts, err := analysis.OptionsFromSettings(c.Settings)
	if err != nil {
		return nil, err
	}
	for _, fn := range configure {
		fn(&opts)
	}
	return analysis.NewPipeline(opts, c.Metrics), nil
}

// SourceFlags selects the dataset a command works on
type SourceFlags struct {
	Source string
	Input  string
}

// Register adds --source and --input to fs
func (s *SourceFlags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&s.Source, "source", "", "Data source: mock, geojson (default mock, or geojson when --input is set)")
	fs.StringVarP(&s.Input, "input", "i", "", "Path to a GeoJSON export")
}

// apply sets the pipeline source. An input file without a source means GeoJSON.
func (s SourceFlags) apply(opts *analysis.Options) {
	switch {
	case s.Source != "":
		opts.Source = loader.Source(s.Source)
	case s.Input != "":
		opts.Source = loader.SourceGeoJSON
	}
	if s.Input != "" {
		opts.Input = s.Input
	}
}

// Load builds a pipeline for src and loads its dataset
func (c *Context) Load(ctx context.Context, src SourceFlags, configure ...func(*analysis.Options)) (*analysis.Pipeline, *loader.Dataset, error) {
	p, err := c.NewPipeline(append([]func(*analysis.Options){src.apply}, configure...)...)
	if err != nil {
		return nil, nil, err
	}
	ds, err := p.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p, ds, nil
}

// Finish writes the metrics textfile, flushes telemetry and closes log files
func (c *Context) Finish() error {
	var err error
	if c.Metrics != nil && c.Settings != nil {
		err = c.Metrics.WriteToTextfile(c.Settings.Metrics.Textfile)
	}

	telemetry.Flush()

	if c.log != nil {
		if closeErr := c.log.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
