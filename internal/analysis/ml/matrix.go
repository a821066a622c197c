// Package ml implements the multivariate statistics run over species feature
// matrices: normalization, PCA, k-means clustering, anomaly scoring, feature
// importance and moving-average forecasting.
//
// Every function is pure. Inputs are never modified and results are freshly
// allocated. Rows are entities (species) and columns are features; callers
// keep a parallel label slice to recover row identity.
package ml

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

const componentName = "analysis.ml"

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}

// Matrix is a row-major feature matrix
type Matrix = [][]float64

// shape returns the dimensions of m and rejects ragged rows
func shape(m Matrix) (rows, cols int, err error) {
	rows = len(m)
	if rows == 0 {
		return 0, 0, nil
	}
	cols = len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return 0, 0, errors.Newf("%w: row %d has %d columns, expected %d",
				errors.ErrInvalidInput, i, len(row), cols).
				Component(componentName).
				Category(errors.CategoryInvalidInput).
				Context("row", i).
				Build()
		}
	}
	return rows, cols, nil
}

// requireNonEmpty validates m and requires at least minRows rows and one column
func requireNonEmpty(m Matrix, minRows int, operation string) (rows, cols int, err error) {
	rows, cols, err = shape(m)
	if err != nil {
		return 0, 0, err
	}
	if rows < minRows || cols == 0 {
		return 0, 0, errors.Newf("%w: %s needs at least %d rows and 1 column, got %dx%d",
			errors.ErrInvalidInput, operation, minRows, rows, cols).
			Component(componentName).
			Category(errors.CategoryInvalidInput).
			MatrixContext(rows, cols).
			Context("operation", operation).
			Build()
	}
	return rows, cols, nil
}

// column copies column j of m
func column(m Matrix, j int) []float64 {
	col := make([]float64, len(m))
	for i := range m {
		col[i] = m[i][j]
	}
	return col
}

// toDense copies m into a gonum matrix
func toDense(m Matrix, rows, cols int) *mat.Dense {
	data := make([]float64, 0, rows*cols)
	for _, row := range m {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

// fromDense copies a gonum matrix back into row-major slices
func fromDense(d mat.Matrix) Matrix {
	rows, cols := d.Dims()
	out := make(Matrix, rows)
	for i := range rows {
		out[i] = make([]float64, cols)
		for j := range cols {
			out[i][j] = d.At(i, j)
		}
	}
	return out
}
