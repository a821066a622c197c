// Package export implements the export command
package export

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/runtime"
)

// Command creates the export command
func Command(rt *runtime.Context) *cobra.Command {
	var (
		src       runtime.SourceFlags
		out       string
		timeRange string
		kind      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export detections as CSV",
		Long: `Write the detections of a dataset as CSV, optionally restricted to a time
of day (morning, afternoon, evening, night) and a species type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := detection.ParseTimeRange(timeRange)
			if err != nil {
				return errors.InvalidParameter("export", "range", timeRange, "%v", err)
			}
			var speciesType detection.SpeciesType
			if kind != "" {
				if speciesType, err = detection.ParseSpeciesType(kind); err != nil {
					return errors.InvalidParameter("export", "type", kind, "%v", err)
				}
			}

			_, ds, err := rt.Load(cmd.Context(), src)
			if err != nil {
				return err
			}

			dets := detection.FilterByTimeRange(ds.Detections, r)
			if speciesType != "" {
				dets = detection.GroupByType(dets)[speciesType]
			}

			if out == "-" {
				return writeCSV(cmd, dets)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return errors.FileError(err, out, 0)
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.FileError(err, out, 0)
			}
			defer f.Close()

			if err := detection.ExportCSV(f, dets); err != nil {
				return errors.FileError(err, out, 0)
			}
			if err := f.Close(); err != nil {
				return errors.FileError(err, out, 0)
			}

			cmd.Printf("exported %d detections to %s\n", len(dets), out)
			return nil
		},
	}

	src.Register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "detections.csv", "Output CSV file, - for stdout")
	cmd.Flags().StringVar(&timeRange, "range", string(detection.RangeAll), "Time of day: all, morning, afternoon, evening, night")
	cmd.Flags().StringVar(&kind, "type", "", "Species type filter, e.g. mammal or bird")

	return cmd
}

func writeCSV(cmd *cobra.Command, dets []detection.Detection) error {
	if err := detection.ExportCSV(cmd.OutOrStdout(), dets); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryProcessing).
			Build()
	}
	return nil
}
