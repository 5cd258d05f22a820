package cluster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix returns an N x D gonum view sharing the backing array of the point
// set, or nil when the set is empty (gonum does not allow zero-sized dense
// matrices). The view must be treated as read-only.
func (ps *PointSet) Matrix() *mat.Dense {
	n := ps.PointCount()
	if n == 0 {
		return nil
	}
	return mat.NewDense(n, ps.dimension, ps.points)
}

// columnBounds returns the per-dimension minimum and maximum of X.
func columnBounds(X *mat.Dense) (lo, hi []float64) {
	rows, cols := X.Dims()
	lo = make([]float64, cols)
	hi = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, X)
		lo[j] = floats.Min(col)
		hi[j] = floats.Max(col)
	}
	return lo, hi
}
