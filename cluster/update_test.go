package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	sets, err := Partition([]int{1, 0, 1, 2, 1}, 4)
	require.NoError(t, err)
	require.Len(t, sets, 4)
	assert.Equal(t, []uint32{1}, sets[0].ToArray())
	assert.Equal(t, []uint32{0, 2, 4}, sets[1].ToArray())
	assert.Equal(t, []uint32{3}, sets[2].ToArray())
	assert.True(t, sets[3].IsEmpty())

	_, err = Partition([]int{0, 2}, 2)
	assert.ErrorIs(t, err, ErrCentroidOutOfBounds)
	_, err = Partition([]int{-1}, 2)
	assert.ErrorIs(t, err, ErrCentroidOutOfBounds)
}

func TestUpdateCentroids_Means(t *testing.T) {
	ps, err := NewPointSet(2, []float64{0, 0, 2, 4, 10, 10, 12, 14, 14, 18})
	require.NoError(t, err)
	sets, err := Partition([]int{0, 0, 1, 1, 1}, 2)
	require.NoError(t, err)

	centroids := []float64{-1, -1, -1, -1}
	reseeded, err := UpdateCentroids(ps, sets, centroids, FailOnEmpty)
	require.NoError(t, err)
	assert.Empty(t, reseeded)
	assert.InDeltaSlice(t, []float64{1, 2, 12, 14}, centroids, 1e-12)
}

func TestUpdateCentroids_TooFewCentroids(t *testing.T) {
	ps, err := NewPointSet(1, []float64{0, 1})
	require.NoError(t, err)
	sets, err := Partition([]int{0, 1}, 2)
	require.NoError(t, err)

	_, err = UpdateCentroids(ps, sets, []float64{0}, PropagateNaN)
	assert.ErrorIs(t, err, ErrCentroidOutOfBounds)
}

func TestUpdateCentroids_EmptyClusterPolicies(t *testing.T) {
	ps, err := NewPointSet(1, []float64{0, 1, 2, 20})
	require.NoError(t, err)
	// Cluster 1 owns no point.
	assignment := []int{0, 0, 0, 2}

	t.Run("nan", func(t *testing.T) {
		sets, err := Partition(assignment, 3)
		require.NoError(t, err)
		centroids := []float64{5, 6, 7}
		reseeded, err := UpdateCentroids(ps, sets, centroids, PropagateNaN)
		require.NoError(t, err)
		assert.Empty(t, reseeded)
		assert.Equal(t, 1.0, centroids[0])
		assert.True(t, math.IsNaN(centroids[1]))
		assert.Equal(t, 20.0, centroids[2])
	})

	t.Run("fail", func(t *testing.T) {
		sets, err := Partition(assignment, 3)
		require.NoError(t, err)
		_, err = UpdateCentroids(ps, sets, []float64{5, 6, 7}, FailOnEmpty)
		assert.ErrorIs(t, err, ErrEmptyCluster)
		var ece *EmptyClusterError
		require.ErrorAs(t, err, &ece)
		assert.Equal(t, 1, ece.Centroid)
	})

	t.Run("reseed", func(t *testing.T) {
		sets, err := Partition(assignment, 3)
		require.NoError(t, err)
		centroids := []float64{5, 6, 7}
		reseeded, err := UpdateCentroids(ps, sets, centroids, ReseedFarthest)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, reseeded)
		// Cluster 0 has mean 1, so points 0 and 2 are the farthest (distance
		// 1); the first one found wins.
		assert.Equal(t, []float64{1, 0, 20}, centroids)
	})
}

func TestUpdateCentroids_ReseedUsesDistinctPoints(t *testing.T) {
	ps, err := NewPointSet(1, []float64{0, 4, 100})
	require.NoError(t, err)
	sets, err := Partition([]int{0, 0, 0}, 3)
	require.NoError(t, err)

	centroids := make([]float64, 3)
	reseeded, err := UpdateCentroids(ps, sets, centroids, ReseedFarthest)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, reseeded)
	// Mean is 104/3; point 100 is farthest, then point 0.
	assert.InDelta(t, 104.0/3, centroids[0], 1e-12)
	assert.Equal(t, 100.0, centroids[1])
	assert.Equal(t, 0.0, centroids[2])
}

func TestUpdateCentroids_ReseedNotEnoughPoints(t *testing.T) {
	ps, err := NewPointSet(1, []float64{3})
	require.NoError(t, err)
	sets, err := Partition([]int{0}, 3)
	require.NoError(t, err)

	_, err = UpdateCentroids(ps, sets, make([]float64, 3), ReseedFarthest)
	assert.ErrorIs(t, err, ErrEmptyCluster)
}

func TestEmptyClusterPolicy_String(t *testing.T) {
	assert.Equal(t, "nan", PropagateNaN.String())
	assert.Equal(t, "fail", FailOnEmpty.String())
	assert.Equal(t, "reseed", ReseedFarthest.String())
	assert.Equal(t, "EmptyClusterPolicy(9)", EmptyClusterPolicy(9).String())
}
