package ml

import "gonum.org/v1/gonum/floats"

// Normalize min-max scales every column of m into [0,1]. A constant column
// maps to 0. An empty matrix gives an empty result; ragged rows are invalid
// input.
func Normalize(m Matrix) (Matrix, error) {
	rows, cols, err := shape(m)
	if err != nil {
		return nil, err
	}

	out := make(Matrix, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}

	for j := range cols {
		col := column(m, j)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		if span == 0 {
			continue
		}
		for i := range rows {
			out[i][j] = (m[i][j] - lo) / span
		}
	}

	return out, nil
}
