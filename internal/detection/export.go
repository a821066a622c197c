package detection

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{"ID", "Timestamp", "Species", "Type", "Hotspot ID", "Latitude", "Longitude"}

// ExportCSV writes detections as CSV with a header row. Coordinates are left
// empty when unknown.
func ExportCSV(w io.Writer, dets []Detection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(exportHeader))
	for i := range dets {
		d := &dets[i]
		record[0] = strconv.Itoa(d.ID)
		record[1] = d.Timestamp.Format(time.RFC3339)
		record[2] = d.Species
		record[3] = string(d.Type)
		record[4] = strconv.Itoa(d.HotspotID)
		record[5], record[6] = "", ""
		if d.Coordinates != nil {
			record[5] = strconv.FormatFloat(d.Coordinates.Lat, 'f', -1, 64)
			record[6] = strconv.FormatFloat(d.Coordinates.Lng, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write detection %d: %w", d.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatDateRange renders a human readable span, e.g.
// "March 1, 2024 - June 30, 2024".
func FormatDateRange(start, end time.Time) string {
	const layout = "January 2, 2006"
	return start.Format(layout) + " - " + end.Format(layout)
}
