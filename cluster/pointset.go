package cluster

import (
	"fmt"
)

// PointSet stores N points of a fixed dimension D as one flat, row-major
// slice of N*D coordinates.
type PointSet struct {
	dimension int
	points    []float64
}

// NewPointSet implements constructor for the PointSet struct. Dimension must
// be at least 1 and len(data) a multiple of dimension.
func NewPointSet(dimension int, data []float64) (*PointSet, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("%w: dimension must be 1 or greater, got %d", ErrInvalidInput, dimension)
	}
	ps := &PointSet{dimension: dimension}
	if err := ps.Load(data); err != nil {
		return nil, err
	}
	return ps, nil
}

// Load replaces the stored points with a copy of data.
func (ps *PointSet) Load(data []float64) error {
	if len(data)%ps.dimension != 0 {
		return fmt.Errorf("%w: data length %d is not a multiple of dimension %d", ErrInvalidInput, len(data), ps.dimension)
	}
	ps.points = append(make([]float64, 0, len(data)), data...)
	return nil
}

// Dimension returns D.
func (ps *PointSet) Dimension() int { return ps.dimension }

// PointCount returns N.
func (ps *PointSet) PointCount() int { return len(ps.points) / ps.dimension }

// Points returns the raw coordinates. The slice must not be modified.
func (ps *PointSet) Points() []float64 { return ps.points }

// Point returns the coordinates of point i as a sub-slice of Points.
func (ps *PointSet) Point(i int) []float64 {
	return ps.points[i*ps.dimension : (i+1)*ps.dimension]
}

// DistanceSquared returns the squared euclidean distance between point
// pointIndex and centroid centroidIndex of the flat centroids array.
func (ps *PointSet) DistanceSquared(pointIndex, centroidIndex int, centroids []float64) (float64, error) {
	if pointIndex < 0 || pointIndex >= ps.PointCount() {
		return 0, &IndexError{Kind: PointIndex, Index: pointIndex}
	}
	if centroidIndex < 0 || centroidIndex >= len(centroids)/ps.dimension {
		return 0, &IndexError{Kind: CentroidIndex, Index: centroidIndex}
	}
	d := ps.dimension
	return SquaredEuclideanDistance(
		ps.points[pointIndex*d:(pointIndex+1)*d],
		centroids[centroidIndex*d:(centroidIndex+1)*d],
	), nil
}
