package cluster

import (
	"fmt"
	"math/rand"
)

// InitializationFunction computes initial values for the cluster centroids.
// It returns a flat array of clustersNumber*D coordinates.
type InitializationFunction func(X *PointSet, clustersNumber int, rng *rand.Rand) ([]float64, error)

// InitRandomSample chooses clustersNumber distinct points uniformly at random
// and copies them as centroids. Colliding draws are rejected and redrawn.
func InitRandomSample(X *PointSet, clustersNumber int, rng *rand.Rand) ([]float64, error) {
	n, dim := X.PointCount(), X.Dimension()
	if clustersNumber > n {
		return nil, fmt.Errorf("%w: cannot sample %d distinct centroids from %d points", ErrInvalidArgument, clustersNumber, n)
	}

	chosen := make(map[int]struct{}, clustersNumber)
	centroids := make([]float64, 0, clustersNumber*dim)
	for len(chosen) < clustersNumber {
		idx := rng.Intn(n)
		if _, ok := chosen[idx]; ok {
			continue
		}
		chosen[idx] = struct{}{}
		centroids = append(centroids, X.Point(idx)...)
	}
	return centroids, nil
}

// InitScrambledMidpoint splits the bounding box of X into clustersNumber
// slabs per dimension and places every centroid coordinate on a randomly
// chosen slab boundary. Centroids are spread over the box instead of being
// biased toward dense regions; they are neither guaranteed distinct nor
// inside the convex hull of the data.
func InitScrambledMidpoint(X *PointSet, clustersNumber int, rng *rand.Rand) ([]float64, error) {
	m := X.Matrix()
	if m == nil {
		return nil, fmt.Errorf("%w: cannot compute bounds of an empty point set", ErrInvalidArgument)
	}
	lo, hi := columnBounds(m)

	dim := X.Dimension()
	centroids := make([]float64, clustersNumber*dim)
	for i := 0; i < clustersNumber; i++ {
		for j := 0; j < dim; j++ {
			width := (hi[j] - lo[j]) / float64(clustersNumber)
			p := rng.Intn(clustersNumber)
			centroids[i*dim+j] = lo[j] + float64(p)*width
		}
	}
	return centroids, nil
}

// InitSupplied returns an InitializationFunction that uses the given
// centroids as they are. Their count is not checked against clustersNumber:
// too few centroids fail with ErrCentroidOutOfBounds, as the first distance
// lookup against a missing centroid would, and extra centroids are carried
// along without taking part in the run.
func InitSupplied(centroids []float64) InitializationFunction {
	return func(X *PointSet, clustersNumber int, _ *rand.Rand) ([]float64, error) {
		dim := X.Dimension()
		if len(centroids)%dim != 0 {
			return nil, fmt.Errorf("%w: centroids length %d is not a multiple of dimension %d", ErrInvalidInput, len(centroids), dim)
		}
		if k := len(centroids) / dim; k < clustersNumber {
			return nil, &IndexError{Kind: CentroidIndex, Index: k}
		}
		return append([]float64(nil), centroids...), nil
	}
}
