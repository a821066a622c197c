package detection

import (
	"fmt"
	"slices"
)

// TimeRange selects a part of the day
type TimeRange string

const (
	RangeAll       TimeRange = "all"
	RangeMorning   TimeRange = "morning"   // 05-11
	RangeAfternoon TimeRange = "afternoon" // 12-17
	RangeEvening   TimeRange = "evening"   // 18-21
	RangeNight     TimeRange = "night"     // 22-04
)

// contains reports whether hour falls in r. RangeAll matches every hour.
func (r TimeRange) contains(hour int) bool {
	switch r {
	case RangeAll:
		return true
	case RangeMorning:
		return hour >= 5 && hour <= 11
	case RangeAfternoon:
		return hour >= 12 && hour <= 17
	case RangeEvening:
		return hour >= 18 && hour <= 21
	case RangeNight:
		return hour >= 22 || hour <= 4
	default:
		return false
	}
}

// ParseTimeRange validates a time range name
func ParseTimeRange(s string) (TimeRange, error) {
	r := TimeRange(s)
	switch r {
	case RangeAll, RangeMorning, RangeAfternoon, RangeEvening, RangeNight:
		return r, nil
	default:
		return "", fmt.Errorf("unknown time range %q", s)
	}
}

// FilterByTimeRange returns detections whose hour falls in r. The input is
// not modified; RangeAll returns a copy.
func FilterByTimeRange(dets []Detection, r TimeRange) []Detection {
	if r == RangeAll {
		return slices.Clone(dets)
	}
	out := make([]Detection, 0, len(dets))
	for i := range dets {
		if r.contains(dets[i].Hour()) {
			out = append(out, dets[i])
		}
	}
	return out
}

// GroupByType buckets detections by species type, keeping input order
func GroupByType(dets []Detection) map[SpeciesType][]Detection {
	groups := make(map[SpeciesType][]Detection)
	for i := range dets {
		groups[dets[i].Type] = append(groups[dets[i].Type], dets[i])
	}
	return groups
}
