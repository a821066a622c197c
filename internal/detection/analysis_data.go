package detection

import "time"

// Summary describes the extent of a dataset
type Summary struct {
	Total          int       `json:"total" yaml:"total"`
	SpeciesCount   int       `json:"species" yaml:"species"`
	Start          time.Time `json:"start" yaml:"start"`
	End            time.Time `json:"end" yaml:"end"`
	Hotspots       int       `json:"hotspots,omitempty" yaml:"hotspots,omitempty"`
	MonitoringDays int       `json:"monitoring_days,omitempty" yaml:"monitoring_days,omitempty"`
}

// HypothesisResult is the verdict of a hypothesis test
type HypothesisResult string

const (
	Confirmed    HypothesisResult = "confirmed"
	Rejected     HypothesisResult = "rejected"
	Inconclusive HypothesisResult = "inconclusive"
)

// Hypothesis is a precomputed statistical claim about a dataset
type Hypothesis struct {
	ID           string            `json:"id" yaml:"id"`
	Title        string            `json:"title" yaml:"title"`
	Result       HypothesisResult  `json:"result" yaml:"result"`
	Confidence   float64           `json:"confidence" yaml:"confidence"` // 0..1
	Description  string            `json:"description" yaml:"description"`
	Methodology  string            `json:"methodology" yaml:"methodology"`
	Findings     []string          `json:"findings" yaml:"findings"`
	Implications []string          `json:"implications" yaml:"implications"`
	Evidence     map[string]string `json:"evidence" yaml:"evidence"`
}

// Hotspot is a camera-trap location
type Hotspot struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Lat        float64 `json:"lat" yaml:"lat"`
	Lng        float64 `json:"lng" yaml:"lng"`
	Detections int     `json:"detections" yaml:"detections"`
	Species    int     `json:"species" yaml:"species"`
}

// AnalysisData is the aggregate produced once per data load. Consumers treat
// it as read-only.
type AnalysisData struct {
	Summary    Summary          `json:"summary" yaml:"summary"`
	Hourly     HourlyActivity   `json:"hourly" yaml:"hourly"`
	Species    *SpeciesCounts   `json:"species" yaml:"species"`
	Types      TypeDistribution `json:"types" yaml:"types"`
	Rare       []SpeciesCount   `json:"rare" yaml:"rare"`
	Common     []SpeciesCount   `json:"common" yaml:"common"`
	Hypotheses []Hypothesis     `json:"hypotheses" yaml:"hypotheses"`
	Hotspots   []Hotspot        `json:"hotspot_stats,omitempty" yaml:"hotspot_stats,omitempty"`
}

// NewSummary computes the summary of a detection set. Start and End are the
// earliest and latest timestamps; MonitoringDays counts whole calendar days
// spanned, inclusive.
func NewSummary(dets []Detection, speciesCount int) Summary {
	s := Summary{Total: len(dets), SpeciesCount: speciesCount}
	if len(dets) == 0 {
		return s
	}

	s.Start, s.End = dets[0].Timestamp, dets[0].Timestamp
	hotspots := make(map[int]struct{})
	for i := range dets {
		ts := dets[i].Timestamp
		if ts.Before(s.Start) {
			s.Start = ts
		}
		if ts.After(s.End) {
			s.End = ts
		}
		hotspots[dets[i].HotspotID] = struct{}{}
	}
	s.Hotspots = len(hotspots)

	startDay := time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(s.End.Year(), s.End.Month(), s.End.Day(), 0, 0, 0, 0, time.UTC)
	s.MonitoringDays = int(endDay.Sub(startDay).Hours()/24) + 1

	return s
}
