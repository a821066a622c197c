// Package cmd wires the trapstats subcommands
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/cmd/analyze"
	"github.com/tphakala/trapstats/cmd/export"
	"github.com/tphakala/trapstats/cmd/forecast"
	"github.com/tphakala/trapstats/cmd/htmlreport"
	"github.com/tphakala/trapstats/cmd/ml"
	"github.com/tphakala/trapstats/cmd/sites"
	"github.com/tphakala/trapstats/internal/conf"
	"github.com/tphakala/trapstats/internal/runtime"
)

// RootCommand creates and returns the root command
func RootCommand(rt *runtime.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "trapstats",
		Short:         "Camera trap biodiversity statistics",
		Long:          `Compute diversity, activity, species clustering and forecasts from camera trap detections.`,
		Version:       rt.Build.String(),
		SilenceErrors: true, // main prints the error once
		SilenceUsage:  true,
	}

	setupFlags(rootCmd, &configFile)

	rootCmd.AddCommand(
		analyze.Command(rt),
		ml.Command(rt),
		forecast.Command(rt),
		sites.Command(rt),
		htmlreport.Command(rt),
		export.Command(rt),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		settings, err := conf.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		return rt.Setup(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
// Defaults here are placeholders; conf only applies flags the user changed.
func setupFlags(rootCmd *cobra.Command, configFile *string) {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to config file (default ./config.yaml or ~/.config/trapstats/config.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.Int64("seed", 42, "Seed for the synthetic dataset")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}
