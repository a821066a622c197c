package ml

import "github.com/tphakala/trapstats/internal/errors"

// ConfusionMatrix tallies predictions against truth as matrix[actual][predicted].
// Labels must lie in [0, classes).
func ConfusionMatrix(predictions, truth []int, classes int) ([][]int, error) {
	if classes < 1 {
		return nil, errors.InvalidParameter(componentName, "classes", classes, "classes must be at least 1")
	}
	if len(predictions) != len(truth) {
		return nil, errors.InvalidInput(componentName, "%d predictions for %d labels", len(predictions), len(truth))
	}

	matrix := make([][]int, classes)
	for i := range matrix {
		matrix[i] = make([]int, classes)
	}

	for i := range predictions {
		p, a := predictions[i], truth[i]
		if p < 0 || p >= classes || a < 0 || a >= classes {
			return nil, errors.InvalidInput(componentName,
				"label pair (%d, %d) at %d outside [0, %d)", a, p, i, classes)
		}
		matrix[a][p]++
	}

	return matrix, nil
}
