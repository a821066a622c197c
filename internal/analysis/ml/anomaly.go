package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

// DefaultAnomalyThreshold is the mean absolute z-score above which a row is
// flagged.
const DefaultAnomalyThreshold = 2.0

// AnomalyScore is the outlier score of one row
type AnomalyScore struct {
	Score     float64 `json:"score" yaml:"score"`
	IsAnomaly bool    `json:"is_anomaly" yaml:"is_anomaly"`
}

// DetectAnomalies scores each row as the mean over columns of
// |x - mean| / stddev using the population standard deviation. Constant
// columns use a stddev of 1, so identical rows score 0 and are never flagged.
// Rows scoring above threshold are anomalies.
func DetectAnomalies(m Matrix, threshold float64) ([]AnomalyScore, error) {
	if threshold <= 0 || math.IsNaN(threshold) {
		return nil, errors.InvalidParameter(componentName, "threshold", threshold,
			"anomaly threshold must be positive")
	}
	rows, cols, err := requireNonEmpty(m, 1, "anomaly detection")
	if err != nil {
		return nil, err
	}

	means := make([]float64, cols)
	stds := make([]float64, cols)
	for j := range cols {
		means[j], stds[j] = stat.PopMeanStdDev(column(m, j), nil)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	scores := make([]AnomalyScore, rows)
	flagged := 0
	for i, row := range m {
		sum := 0.0
		for j, v := range row {
			sum += math.Abs(v-means[j]) / stds[j]
		}
		score := sum / float64(cols)
		scores[i] = AnomalyScore{Score: score, IsAnomaly: score > threshold}
		if scores[i].IsAnomaly {
			flagged++
		}
	}

	getLog().Debug("anomaly scoring complete",
		logger.Int("rows", rows),
		logger.Int("flagged", flagged),
		logger.Float64("threshold", threshold))

	return scores, nil
}
