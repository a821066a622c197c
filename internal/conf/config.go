// Package conf loads trapstats settings from config file, environment and flags.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

// EnvPrefix is prepended to every environment override, e.g. TRAPSTATS_ANALYSIS_KMEANS_K.
const EnvPrefix = "TRAPSTATS"

// Settings contains all configuration options for trapstats
type Settings struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`

	Logging logger.LoggingConfig `mapstructure:"logging" yaml:"logging"`

	Station StationSettings `mapstructure:"station" yaml:"station"`

	Analysis AnalysisSettings `mapstructure:"analysis" yaml:"analysis"`

	Mock struct {
		Seed int64 `mapstructure:"seed" yaml:"seed"` // seed for the synthetic dataset generator
	} `mapstructure:"mock" yaml:"mock"`

	Telemetry TelemetrySettings `mapstructure:"telemetry" yaml:"telemetry"`

	Metrics struct {
		Textfile string `mapstructure:"textfile" yaml:"textfile"` // write Prometheus metrics here after a run, empty disables
	} `mapstructure:"metrics" yaml:"metrics"`
}

// StationSettings locates the study area for sun-event based night classification.
// Latitude and longitude of zero mean "not configured".
type StationSettings struct {
	Latitude  float64 `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `mapstructure:"longitude" yaml:"longitude"`
	Timezone  string  `mapstructure:"timezone" yaml:"timezone"`
}

// HasLocation reports whether a station location has been configured
func (s StationSettings) HasLocation() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// AnalysisSettings holds tuning for the statistics core
type AnalysisSettings struct {
	RareThreshold   int `mapstructure:"rare_threshold" yaml:"rare_threshold"`     // species with fewer detections are rare
	CommonThreshold int `mapstructure:"common_threshold" yaml:"common_threshold"` // species with more detections are common

	PCA struct {
		Components int  `mapstructure:"components" yaml:"components"`
		Scale      bool `mapstructure:"scale" yaml:"scale"`
	} `mapstructure:"pca" yaml:"pca"`

	KMeans struct {
		K             int    `mapstructure:"k" yaml:"k"`
		MaxIterations int    `mapstructure:"max_iterations" yaml:"max_iterations"`
		Seed          uint64 `mapstructure:"seed" yaml:"seed"`
	} `mapstructure:"kmeans" yaml:"kmeans"`

	Anomaly struct {
		Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	} `mapstructure:"anomaly" yaml:"anomaly"`

	Forecast struct {
		Steps  int `mapstructure:"steps" yaml:"steps"`
		Window int `mapstructure:"window" yaml:"window"`
	} `mapstructure:"forecast" yaml:"forecast"`
}

// TelemetrySettings controls optional Sentry error reporting
type TelemetrySettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// flagBindings maps cobra flag names to config keys
var flagBindings = map[string]string{
	"debug":        "debug",
	"seed":         "mock.seed",
	"metrics-file": "metrics.textfile",
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads configuration from configFile, or the default search paths when
// configFile is empty, applies TRAPSTATS_* environment overrides and any
// changed flags, then validates the result.
func Load(configFile string, flags *pflag.FlagSet) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	v := viper.New()
	setDefaultConfig(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.Newf("error unmarshaling config into struct: %w", err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// readConfigFile loads an explicit file or searches the default paths.
// A missing file in the default paths is not an error; defaults apply.
func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, path := range GetDefaultConfigPaths() {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Newf("error reading config file: %w", err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			FileContext(configFile, 0).
			Build()
	}

	return nil
}

// bindFlags binds the global cobra flags that override config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagBindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml,
// in priority order.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "trapstats"))
	}
	return paths
}

// GetSettings returns the most recently loaded settings, or nil before Load
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
