package cluster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed point data, dimensions or
	// centroid arrays.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidArgument is returned for a bad cluster count or engine
	// parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPointOutOfBounds is returned when a point index is out of range.
	ErrPointOutOfBounds = errors.New("point index out of bounds")
	// ErrCentroidOutOfBounds is returned when a centroid index is out of
	// range.
	ErrCentroidOutOfBounds = errors.New("centroid index out of bounds")
	// ErrWorkerFailure is returned when a parallel assignment task fails.
	ErrWorkerFailure = errors.New("worker failure")
	// ErrEmptyCluster is returned by the FailOnEmpty policy.
	ErrEmptyCluster = errors.New("empty cluster")
	// ErrNotFitted is returned by Predict before Cluster has completed.
	ErrNotFitted = errors.New("model is not fitted yet")
)

// IndexKind tells which array an IndexError refers to.
type IndexKind int

const (
	PointIndex IndexKind = iota
	CentroidIndex
)

// IndexError reports an index contract violation. It matches
// ErrPointOutOfBounds or ErrCentroidOutOfBounds depending on Kind.
type IndexError struct {
	Kind  IndexKind
	Index int
}

func (e *IndexError) Error() string {
	if e.Kind == PointIndex {
		return fmt.Sprintf("%v: %d", ErrPointOutOfBounds, e.Index)
	}
	return fmt.Sprintf("%v: %d", ErrCentroidOutOfBounds, e.Index)
}

func (e *IndexError) Is(target error) bool {
	switch target {
	case ErrPointOutOfBounds:
		return e.Kind == PointIndex
	case ErrCentroidOutOfBounds:
		return e.Kind == CentroidIndex
	}
	return false
}

// WorkerError wraps the failure of the task owning points [Start, End).
type WorkerError struct {
	Start, End int
	Err        error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%v: chunk [%d, %d): %v", ErrWorkerFailure, e.Start, e.End, e.Err)
}

func (e *WorkerError) Is(target error) bool { return target == ErrWorkerFailure }

func (e *WorkerError) Unwrap() error { return e.Err }

// EmptyClusterError reports a centroid that lost all of its members.
type EmptyClusterError struct {
	Centroid int
}

func (e *EmptyClusterError) Error() string {
	return fmt.Sprintf("%v: centroid %d has no members", ErrEmptyCluster, e.Centroid)
}

func (e *EmptyClusterError) Is(target error) bool { return target == ErrEmptyCluster }
