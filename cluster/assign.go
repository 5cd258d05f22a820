package cluster

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of points handled by one task of
// AssignParallel. It is the scalability knob of the parallel step: smaller
// chunks mean more, shorter tasks.
const DefaultChunkSize = 10_000

// AssignmentFunction sets assignment[i] to the index of the centroid nearest
// to point i, for K = len(centroids)/D centroids. Exact ties go to the lowest
// centroid index. It reports whether any slot changed.
type AssignmentFunction func(X *PointSet, centroids []float64, assignment []int) (bool, error)

// AssignSequential scans every point against every centroid on the calling
// goroutine.
func AssignSequential(X *PointSet, centroids []float64, assignment []int) (bool, error) {
	if err := checkAssignment(X, assignment); err != nil {
		return false, err
	}
	return assignRange(X, centroids, assignment, 0, X.PointCount())
}

// AssignParallel returns an AssignmentFunction that splits the points into
// contiguous chunks of chunkSize and scans each chunk in its own goroutine.
// Every task writes only the assignment slots of its own range, so no
// locking is needed. The function returns once all tasks are done; the first
// failing task aborts the step with a *WorkerError.
//
// A chunkSize below 1 selects DefaultChunkSize.
func AssignParallel(chunkSize int) AssignmentFunction {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return func(X *PointSet, centroids []float64, assignment []int) (bool, error) {
		if err := checkAssignment(X, assignment); err != nil {
			return false, err
		}

		n := X.PointCount()
		chunks := (n + chunkSize - 1) / chunkSize
		changed := make([]bool, chunks)

		var g errgroup.Group
		for c := 0; c < chunks; c++ {
			c := c
			start := c * chunkSize
			end := min(start+chunkSize, n)
			g.Go(func() error {
				ch, err := assignRange(X, centroids, assignment, start, end)
				if err != nil {
					return &WorkerError{Start: start, End: end, Err: err}
				}
				changed[c] = ch
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return false, err
		}

		for _, ch := range changed {
			if ch {
				return true, nil
			}
		}
		return false, nil
	}
}

func checkAssignment(X *PointSet, assignment []int) error {
	if len(assignment) != X.PointCount() {
		return fmt.Errorf("%w: assignment length %d does not match %d points", ErrInvalidInput, len(assignment), X.PointCount())
	}
	return nil
}

// assignRange assigns points [start, end) and reports whether any changed.
func assignRange(X *PointSet, centroids []float64, assignment []int, start, end int) (bool, error) {
	k := len(centroids) / X.Dimension()
	var changed bool
	for i := start; i < end; i++ {
		nearest, err := nearestCentroid(X, i, centroids, k, assignment[i])
		if err != nil {
			return changed, err
		}
		if assignment[i] != nearest {
			assignment[i] = nearest
			changed = true
		}
	}
	return changed, nil
}

// nearestCentroid returns the first centroid with the strictly smallest
// squared distance to point i. When no distance compares below +Inf (all
// centroids NaN, for instance) current is returned unchanged.
func nearestCentroid(X *PointSet, i int, centroids []float64, k, current int) (int, error) {
	if k == 0 {
		return -1, &IndexError{Kind: CentroidIndex, Index: 0}
	}
	best, minDist := current, math.Inf(1)
	for j := 0; j < k; j++ {
		d, err := X.DistanceSquared(i, j, centroids)
		if err != nil {
			return -1, err
		}
		if d < minDist {
			minDist = d
			best = j
		}
	}
	return best, nil
}
