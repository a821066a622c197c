package biodiversity

import "github.com/tphakala/trapstats/internal/detection"

// MaxActivityRatio stands in for an infinite night/day ratio when there is
// night activity but none during the day.
const MaxActivityRatio = 1000.0

// NightHours and DayHours partition the day for activity ratios
var (
	NightHours = []int{20, 21, 22, 23, 0, 1, 2, 3, 4, 5}
	DayHours   = []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
)

// TemporalPattern summarises when activity happens
type TemporalPattern struct {
	NightCount  int     `json:"night_count" yaml:"night_count"`
	DayCount    int     `json:"day_count" yaml:"day_count"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`               // night/day
	RatioCapped bool    `json:"ratio_capped" yaml:"ratio_capped"` // Ratio is MaxActivityRatio because DayCount is 0
	PeakHour    int     `json:"peak_hour" yaml:"peak_hour"`
	PeakCount   int     `json:"peak_count" yaml:"peak_count"`
}

// TemporalPatterns splits hourly activity into night and day totals and finds
// the peak hour. The ratio is 0 when there is no activity at all and
// MaxActivityRatio, with RatioCapped set, when only night activity exists.
// Ties for the peak go to the earliest hour.
func TemporalPatterns(hourly detection.HourlyActivity) TemporalPattern {
	var p TemporalPattern

	for _, h := range NightHours {
		p.NightCount += hourly[h]
	}
	for _, h := range DayHours {
		p.DayCount += hourly[h]
	}

	switch {
	case p.DayCount > 0:
		p.Ratio = float64(p.NightCount) / float64(p.DayCount)
	case p.NightCount > 0:
		p.Ratio = MaxActivityRatio
		p.RatioCapped = true
	}

	for hour, count := range hourly {
		if count > p.PeakCount {
			p.PeakHour, p.PeakCount = hour, count
		}
	}

	return p
}
