package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/sirupsen/logrus"
)

// DefaultMaxIterations is the iteration cap of a new KMeans.
const DefaultMaxIterations = 25

// ConvergencePolicy selects when the iteration loop stops.
type ConvergencePolicy int

const (
	// EarlyExit stops as soon as an assignment step changes nothing, or
	// at the iteration cap.
	EarlyExit ConvergencePolicy = iota
	// FixedCount always runs MaxIterationNumber iterations.
	FixedCount
)

func (p ConvergencePolicy) String() string {
	switch p {
	case EarlyExit:
		return "early-exit"
	case FixedCount:
		return "fixed-count"
	}
	return fmt.Sprintf("ConvergencePolicy(%d)", int(p))
}

// State is the lifecycle stage of a KMeans.
type State int

const (
	Uninitialized State = iota
	Initialized
	Iterating
	Converged
	IterationCapReached
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case IterationCapReached:
		return "iteration-cap-reached"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// KMeans is the k-means engine. It owns the point set together with the
// centroids and assignment produced by the last call to Cluster.
//
// The exported fields select the strategies used by Cluster and may be
// changed between runs. A KMeans is not safe for concurrent use.
type KMeans struct {
	InitializationFunc InitializationFunction
	AssignmentFunc     AssignmentFunction
	MaxIterationNumber int
	Convergence        ConvergencePolicy
	EmptyClusters      EmptyClusterPolicy
	Rand               *rand.Rand
	Logger             logrus.FieldLogger

	points         *PointSet
	clustersNumber int
	centroids      []float64
	assignment     []int
	sets           []*roaring.Bitmap
	state          State
	iterations     int
}

// NewKMeans implements constructor for the KMeans struct. The engine starts
// with random sample initialization, sequential assignment, early exit, NaN
// propagation for empty clusters and a time seeded random source.
func NewKMeans(dimension int, data []float64) (*KMeans, error) {
	ps, err := NewPointSet(dimension, data)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}
	return &KMeans{
		InitializationFunc: InitRandomSample,
		AssignmentFunc:     AssignSequential,
		MaxIterationNumber: DefaultMaxIterations,
		Convergence:        EarlyExit,
		EmptyClusters:      PropagateNaN,
		Rand:               rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:             logrus.StandardLogger(),
		points:             ps,
	}, nil
}

// Load replaces the point data and discards any clustering result.
func (km *KMeans) Load(data []float64) error {
	if err := km.points.Load(data); err != nil {
		return fmt.Errorf("kmeans: failed to load data: %w", err)
	}
	km.reset()
	return nil
}

func (km *KMeans) reset() {
	km.clustersNumber = 0
	km.centroids = nil
	km.assignment = nil
	km.sets = nil
	km.state = Uninitialized
	km.iterations = 0
}

// Cluster partitions the points into count clusters. When initialCentroids
// is nil the centroids come from InitializationFunc, otherwise the given
// array is used as is (see InitSupplied).
func (km *KMeans) Cluster(count int, initialCentroids []float64) error {
	if count < 1 {
		return fmt.Errorf("kmeans: %w: cluster count must be at least 1, got %d", ErrInvalidArgument, count)
	}
	if err := km.validateParameters(); err != nil {
		return fmt.Errorf("kmeans: failed to cluster: %w", err)
	}

	km.reset()
	initFunc := km.InitializationFunc
	if initialCentroids != nil {
		initFunc = InitSupplied(initialCentroids)
	}
	centroids, err := initFunc(km.points, count, km.Rand)
	if err != nil {
		return fmt.Errorf("kmeans: failed to initialize centroids: %w", err)
	}
	km.clustersNumber = count
	km.centroids = centroids
	km.assignment = make([]int, km.points.PointCount())
	km.state = Initialized

	log := km.logger().WithFields(logrus.Fields{
		"clusters":  count,
		"points":    km.points.PointCount(),
		"dimension": km.points.Dimension(),
	})

	km.state = Iterating
	var (
		converged, reseeded bool
		active              = km.centroids[:count*km.points.Dimension()]
	)
	for i := 0; i < km.MaxIterationNumber; i++ {
		km.iterations++
		changed, err := km.AssignmentFunc(km.points, active, km.assignment)
		if err != nil {
			return km.fail(fmt.Errorf("kmeans: assignment failed at iteration %d: %w", i, err))
		}

		// The first pass always follows a zero-filled assignment, and a
		// reseeded centroid has not been assigned against yet.
		converged = !changed && i > 0 && !reseeded
		if converged && km.Convergence == EarlyExit {
			break
		}

		km.sets, err = Partition(km.assignment, count)
		if err != nil {
			return km.fail(fmt.Errorf("kmeans: partition failed at iteration %d: %w", i, err))
		}
		moved, err := UpdateCentroids(km.points, km.sets, active, km.EmptyClusters)
		if err != nil {
			return km.fail(fmt.Errorf("kmeans: update failed at iteration %d: %w", i, err))
		}
		reseeded = len(moved) > 0
		if reseeded {
			log.WithField("centroids", moved).Warn("reseeded empty clusters")
		}

		log.WithFields(logrus.Fields{
			"iteration": i,
			"changed":   changed,
		}).Debug("kmeans iteration")
	}

	if converged {
		km.state = Converged
	} else {
		km.state = IterationCapReached
	}

	log.WithFields(logrus.Fields{
		"state":      km.state,
		"iterations": km.iterations,
	}).Info("kmeans finished")
	return nil
}

// fail discards the partial result of an aborted run.
func (km *KMeans) fail(err error) error {
	km.reset()
	return err
}

func (km *KMeans) logger() logrus.FieldLogger {
	if km.Logger == nil {
		return logrus.StandardLogger()
	}
	return km.Logger
}

func (km *KMeans) validateParameters() error {
	if km.InitializationFunc == nil {
		return fmt.Errorf("%w: initialization function is nil", ErrInvalidArgument)
	}
	if km.AssignmentFunc == nil {
		return fmt.Errorf("%w: assignment function is nil", ErrInvalidArgument)
	}
	if km.MaxIterationNumber < 1 {
		return fmt.Errorf("%w: max iteration number must be at least 1", ErrInvalidArgument)
	}
	if km.Rand == nil {
		return fmt.Errorf("%w: random source is nil", ErrInvalidArgument)
	}
	return nil
}

// DistanceSquared returns the squared distance between a point and one of
// the current centroids.
func (km *KMeans) DistanceSquared(pointIndex, centroidIndex int) (float64, error) {
	return km.points.DistanceSquared(pointIndex, centroidIndex, km.centroids)
}

// Dimension returns the dimension of the points.
func (km *KMeans) Dimension() int { return km.points.Dimension() }

// PointCount returns the number of points.
func (km *KMeans) PointCount() int { return km.points.PointCount() }

// Points returns the flat point coordinates. The slice must not be modified.
func (km *KMeans) Points() []float64 { return km.points.Points() }

// Centroids returns the flat centroid coordinates of the last run.
func (km *KMeans) Centroids() []float64 { return km.centroids }

// Assignment returns the cluster index of every point after the last run.
func (km *KMeans) Assignment() []int { return km.assignment }

// State returns the lifecycle stage of the engine.
func (km *KMeans) State() State { return km.state }

// Iterations returns the number of assignment passes of the last run.
func (km *KMeans) Iterations() int { return km.iterations }

func (km *KMeans) fitted() bool {
	return km.state == Converged || km.state == IterationCapReached
}

// Sizes returns the number of points in every cluster.
func (km *KMeans) Sizes() []int {
	sizes := make([]int, len(km.sets))
	for k, members := range km.sets {
		sizes[k] = int(members.GetCardinality())
	}
	return sizes
}

// Members returns the indices of the points assigned to cluster k, in
// ascending order.
func (km *KMeans) Members(k int) ([]int, error) {
	if k < 0 || k >= len(km.sets) {
		return nil, &IndexError{Kind: CentroidIndex, Index: k}
	}
	members := make([]int, 0, km.sets[k].GetCardinality())
	it := km.sets[k].Iterator()
	for it.HasNext() {
		members = append(members, int(it.Next()))
	}
	return members, nil
}

// Cost returns the sum of squared distances between every point and its
// assigned centroid.
func (km *KMeans) Cost() (float64, error) {
	if !km.fitted() {
		return 0, ErrNotFitted
	}
	var total float64
	for i, label := range km.assignment {
		d, err := km.points.DistanceSquared(i, label, km.centroids)
		if err != nil {
			return 0, fmt.Errorf("kmeans: cost: %w", err)
		}
		total += d
	}
	return total, nil
}

// Predict returns the index of the centroid nearest to a new observation.
func (km *KMeans) Predict(point []float64) (int, error) {
	if !km.fitted() {
		return -1, fmt.Errorf("kmeans: cannot predict label: %w", ErrNotFitted)
	}
	dim := km.points.Dimension()
	if len(point) != dim {
		return -1, fmt.Errorf("kmeans: %w: observation has %d values, want %d", ErrInvalidInput, len(point), dim)
	}
	best, minDist := 0, math.Inf(1)
	for k := 0; k < km.clustersNumber; k++ {
		if d := SquaredEuclideanDistance(point, km.centroids[k*dim:(k+1)*dim]); d < minDist {
			minDist = d
			best = k
		}
	}
	return best, nil
}

func (km *KMeans) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-dimensional k-means of %d points (%v)\n", km.points.Dimension(), km.points.PointCount(), km.state)
	fmt.Fprintf(&b, "Centroids: %v\n", km.centroids)
	fmt.Fprintf(&b, "Assignment: %v\n", km.assignment)
	fmt.Fprintf(&b, "Sizes: %v", km.Sizes())
	return b.String()
}
