package cluster

import (
	"gonum.org/v1/gonum/floats"
)

// SquaredEuclideanDistance computes the squared euclidean distance between two
// vectors of equal length. It is monotonic with the true distance and is the
// comparator used by every assignment step.
func SquaredEuclideanDistance(a, b []float64) float64 {
	var distance float64
	for i := range a {
		diff := a[i] - b[i]
		distance += diff * diff
	}
	return distance
}

// EuclideanDistance computes euclidean distance between two vectors.
func EuclideanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}
