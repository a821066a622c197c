package detection

import (
	"slices"
	"time"
)

// MonthlyCounts returns detections per calendar month from the earliest to the
// latest detection. Months without detections in between count as 0.
func MonthlyCounts(dets []Detection) []float64 {
	if len(dets) == 0 {
		return nil
	}

	monthIndex := func(t time.Time) int {
		return t.Year()*12 + int(t.Month()) - 1
	}

	first, last := monthIndex(dets[0].Timestamp), monthIndex(dets[0].Timestamp)
	for i := range dets {
		m := monthIndex(dets[i].Timestamp)
		first = min(first, m)
		last = max(last, m)
	}

	counts := make([]float64, last-first+1)
	for i := range dets {
		counts[monthIndex(dets[i].Timestamp)-first]++
	}
	return slices.Clip(counts)
}
