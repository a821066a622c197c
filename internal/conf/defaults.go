// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("logging.default_level", "info")
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", true)
	v.SetDefault("logging.console.level", "info")
	v.SetDefault("logging.file_output.enabled", false)
	v.SetDefault("logging.file_output.path", "logs/trapstats.log")
	v.SetDefault("logging.file_output.level", "info")

	// Codru reserve, central Moldova; 0/0 would disable sun-based night detection
	v.SetDefault("station.latitude", 47.0105)
	v.SetDefault("station.longitude", 28.8638)
	v.SetDefault("station.timezone", "Europe/Chisinau")

	v.SetDefault("analysis.rare_threshold", 50)
	v.SetDefault("analysis.common_threshold", 100)
	v.SetDefault("analysis.pca.components", 2)
	v.SetDefault("analysis.pca.scale", true)
	v.SetDefault("analysis.kmeans.k", 3)
	v.SetDefault("analysis.kmeans.max_iterations", 100)
	v.SetDefault("analysis.kmeans.seed", 42)
	v.SetDefault("analysis.anomaly.threshold", 2.0)
	v.SetDefault("analysis.forecast.steps", 7)
	v.SetDefault("analysis.forecast.window", 5)

	v.SetDefault("mock.seed", 42)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")

	v.SetDefault("metrics.textfile", "")
}
