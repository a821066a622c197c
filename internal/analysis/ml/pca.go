package ml

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

// PCAOptions tunes PCA
type PCAOptions struct {
	// Scale divides each centred column by its sample standard deviation.
	// Constant columns are left unscaled.
	Scale bool
}

// DefaultPCAOptions scales columns, matching a correlation-matrix PCA
func DefaultPCAOptions() PCAOptions {
	return PCAOptions{Scale: true}
}

// PCAResult holds the projection onto the leading principal components
type PCAResult struct {
	Projected         Matrix    `json:"projected" yaml:"projected"`                   // rows x components
	ExplainedVariance []float64 `json:"explained_variance" yaml:"explained_variance"` // descending, each in [0,1]
	Eigenvalues       []float64 `json:"eigenvalues" yaml:"eigenvalues"`
	Loadings          Matrix    `json:"loadings" yaml:"loadings"` // cols x components
}

// PCA projects m onto its top components principal axes, found by
// eigendecomposition of the covariance of the centred (and optionally
// scaled) data.
//
// Eigenvector signs are not unique; each axis is oriented so its largest
// magnitude loading is positive. Callers should still compare projections
// by distance rather than by signed coordinate.
func PCA(m Matrix, components int, opts PCAOptions) (PCAResult, error) {
	rows, cols, err := requireNonEmpty(m, 2, "pca")
	if err != nil {
		return PCAResult{}, err
	}
	if components < 1 || components > cols {
		return PCAResult{}, errors.InvalidParameter(componentName, "components", components,
			"components must be between 1 and %d", cols)
	}

	x := toDense(m, rows, cols)
	standardize(x, opts.Scale)

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return PCAResult{}, errors.NumericDegeneracy(componentName,
			"covariance eigendecomposition did not converge for %dx%d matrix", rows, cols)
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Values come back ascending
	order := make([]int, cols)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(values[b], values[a])
	})

	total := 0.0
	for _, v := range values {
		total += max(v, 0) // negative eigenvalues are rounding noise
	}

	loadings := mat.NewDense(cols, components, nil)
	result := PCAResult{
		ExplainedVariance: make([]float64, components),
		Eigenvalues:       make([]float64, components),
	}
	for c := range components {
		idx := order[c]
		lambda := max(values[idx], 0)
		result.Eigenvalues[c] = lambda
		if total > 0 {
			result.ExplainedVariance[c] = lambda / total
		}

		axis := mat.Col(nil, idx, &vectors)
		orientAxis(axis)
		loadings.SetCol(c, axis)
	}

	var projected mat.Dense
	projected.Mul(x, loadings)

	result.Projected = fromDense(&projected)
	result.Loadings = fromDense(loadings)

	getLog().Debug("pca complete",
		logger.Int("rows", rows),
		logger.Int("cols", cols),
		logger.Int("components", components),
		logger.Any("explained_variance", result.ExplainedVariance))

	return result, nil
}

// standardize centres each column of x in place and optionally divides by its
// sample standard deviation.
func standardize(x *mat.Dense, scale bool) {
	rows, cols := x.Dims()
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, x)
		mean, sd := stat.MeanStdDev(col, nil)
		if !scale || sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		for i := range rows {
			x.Set(i, j, (col[i]-mean)/sd)
		}
	}
}

// orientAxis flips v so its largest magnitude entry is positive
func orientAxis(v []float64) {
	best := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	if v[best] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}
