package biodiversity

import (
	"math"

	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

// DiversityMetrics summarises community diversity
type DiversityMetrics struct {
	Richness int     `json:"richness" yaml:"richness"` // distinct species
	Shannon  float64 `json:"shannon" yaml:"shannon"`   // -Σ p·ln(p)
	Simpson  float64 `json:"simpson" yaml:"simpson"`   // 1 - Σ p²
	Evenness float64 `json:"evenness" yaml:"evenness"` // Shannon / ln(richness), 0 when richness is 1
}

// Diversity computes Shannon, Simpson, richness and evenness of counts.
// Zero counts contribute nothing to the indices. Empty counts or a zero
// total return an invalid input error.
func Diversity(counts *detection.SpeciesCounts) (DiversityMetrics, error) {
	if counts.Len() == 0 {
		return DiversityMetrics{}, errors.InvalidInput(componentName, "species counts are empty")
	}
	total := counts.Total()
	if total == 0 {
		return DiversityMetrics{}, errors.InvalidInput(componentName, "species counts sum to zero")
	}

	m := DiversityMetrics{Richness: counts.Len()}
	sumSquares := 0.0
	for _, count := range counts.All() {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		m.Shannon -= p * math.Log(p)
		sumSquares += p * p
	}
	m.Simpson = 1 - sumSquares

	// A single species has no evenness to measure; ln(1) would divide by zero
	if m.Richness > 1 {
		m.Evenness = m.Shannon / math.Log(float64(m.Richness))
	}

	getLog().Debug("computed diversity",
		logger.Int("richness", m.Richness),
		logger.Float64("shannon", m.Shannon),
		logger.Float64("simpson", m.Simpson))

	return m, nil
}
