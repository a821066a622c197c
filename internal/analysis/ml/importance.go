package ml

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/trapstats/internal/errors"
)

// FeatureImportance is the relative spread of one feature column
type FeatureImportance struct {
	Name       string  `json:"name" yaml:"name"`
	Importance float64 `json:"importance" yaml:"importance"` // 0..1, 1 for the most spread-out column
}

// RankFeatures scores each column by its standard deviation relative to the
// largest column standard deviation and returns them most important first.
// Equal scores keep column order. When every column is constant all scores
// are 0.
func RankFeatures(m Matrix, names []string) ([]FeatureImportance, error) {
	_, cols, err := requireNonEmpty(m, 1, "feature importance")
	if err != nil {
		return nil, err
	}
	if len(names) != cols {
		return nil, errors.Newf("%w: %d feature names for %d columns", errors.ErrInvalidInput, len(names), cols).
			Component(componentName).
			Category(errors.CategoryInvalidInput).
			Build()
	}

	stds := make([]float64, cols)
	for j := range cols {
		_, stds[j] = stat.PopMeanStdDev(column(m, j), nil)
	}
	maxStd := floats.Max(stds)

	ranked := make([]FeatureImportance, cols)
	for j := range cols {
		ranked[j].Name = names[j]
		if maxStd > 0 {
			ranked[j].Importance = stds[j] / maxStd
		}
	}

	slices.SortStableFunc(ranked, func(a, b FeatureImportance) int {
		return cmp.Compare(b.Importance, a.Importance)
	})

	return ranked, nil
}
