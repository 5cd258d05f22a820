package cluster

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/floats"
)

// EmptyClusterPolicy decides what UpdateCentroids does with a centroid that
// has no members.
type EmptyClusterPolicy int

const (
	// PropagateNaN sets every coordinate of the centroid to NaN, the result
	// of dividing an empty sum by a zero count. A NaN centroid never wins a
	// nearest-centroid comparison, so the cluster stays empty.
	PropagateNaN EmptyClusterPolicy = iota
	// FailOnEmpty aborts the update with an *EmptyClusterError.
	FailOnEmpty
	// ReseedFarthest moves the centroid onto the point that lies farthest
	// from its own assigned centroid.
	ReseedFarthest
)

func (p EmptyClusterPolicy) String() string {
	switch p {
	case PropagateNaN:
		return "nan"
	case FailOnEmpty:
		return "fail"
	case ReseedFarthest:
		return "reseed"
	}
	return fmt.Sprintf("EmptyClusterPolicy(%d)", int(p))
}

// Partition groups point indices by their assigned cluster.
func Partition(assignment []int, clustersNumber int) ([]*roaring.Bitmap, error) {
	sets := make([]*roaring.Bitmap, clustersNumber)
	for i := range sets {
		sets[i] = roaring.New()
	}
	for i, label := range assignment {
		if label < 0 || label >= clustersNumber {
			return nil, &IndexError{Kind: CentroidIndex, Index: label}
		}
		sets[label].Add(uint32(i))
	}
	return sets, nil
}

// UpdateCentroids moves every centroid to the per-dimension mean of its
// members in sets. The centroids array is updated in place and must hold at
// least len(sets) centroids. It returns the indices of centroids reseeded by
// the ReseedFarthest policy.
func UpdateCentroids(X *PointSet, sets []*roaring.Bitmap, centroids []float64, policy EmptyClusterPolicy) ([]int, error) {
	dim := X.Dimension()
	if len(centroids) < len(sets)*dim {
		return nil, &IndexError{Kind: CentroidIndex, Index: len(centroids) / dim}
	}

	var empty []int
	for k, members := range sets {
		centroid := centroids[k*dim : (k+1)*dim]
		if members.IsEmpty() {
			empty = append(empty, k)
			continue
		}
		for d := range centroid {
			centroid[d] = 0
		}
		it := members.Iterator()
		for it.HasNext() {
			floats.Add(centroid, X.Point(int(it.Next())))
		}
		floats.Scale(1/float64(members.GetCardinality()), centroid)
	}

	if len(empty) == 0 {
		return nil, nil
	}

	switch policy {
	case FailOnEmpty:
		return nil, &EmptyClusterError{Centroid: empty[0]}
	case ReseedFarthest:
		return reseedFarthest(X, sets, centroids, empty)
	default:
		for _, k := range empty {
			for d := k * dim; d < (k+1)*dim; d++ {
				centroids[d] = math.NaN()
			}
		}
		return nil, nil
	}
}

// reseedFarthest places each empty centroid on the point with the largest
// distance to the centroid of its own cluster, using every point at most
// once. Distances are taken against the freshly updated means.
func reseedFarthest(X *PointSet, sets []*roaring.Bitmap, centroids []float64, empty []int) ([]int, error) {
	dim := X.Dimension()
	used := roaring.New()
	reseeded := make([]int, 0, len(empty))

	for _, k := range empty {
		farthest, maxDist := -1, -1.0
		for label, members := range sets {
			it := members.Iterator()
			for it.HasNext() {
				i := it.Next()
				if used.Contains(i) {
					continue
				}
				d, err := X.DistanceSquared(int(i), label, centroids)
				if err != nil {
					return reseeded, err
				}
				if d > maxDist {
					maxDist = d
					farthest = int(i)
				}
			}
		}
		if farthest < 0 {
			// Fewer points than clusters; nothing left to take.
			return reseeded, &EmptyClusterError{Centroid: k}
		}
		used.Add(uint32(farthest))
		copy(centroids[k*dim:(k+1)*dim], X.Point(farthest))
		reseeded = append(reseeded, k)
	}
	return reseeded, nil
}
