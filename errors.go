package spikego

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySample is returned when a sample contains no pixels.
	ErrEmptySample = errors.New("empty sample")

	// ErrNotTrained is returned when classification is attempted before
	// any labeled sample was learned.
	ErrNotTrained = errors.New("no trained patterns")

	// ErrMemoryLimit is returned when storing a trained pattern would
	// exceed the resource controller's memory limit.
	ErrMemoryLimit = errors.New("memory limit exceeded")
)

// ErrInvalidImage indicates pixel data that cannot form a square image
// covering the lattice grid.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidImage struct {
	Pixels   int
	GridSize int
	cause    error
}

func (e *ErrInvalidImage) Error() string {
	return fmt.Sprintf("invalid image: %d pixels cannot cover a %dx%d grid", e.Pixels, e.GridSize, e.GridSize)
}

func (e *ErrInvalidImage) Unwrap() error { return e.cause }

// ErrSnapshotMismatch indicates a snapshot whose lattice shape does not
// match the retina it is restored into.
type ErrSnapshotMismatch struct {
	Field    string
	Expected int
	Actual   int
}

func (e *ErrSnapshotMismatch) Error() string {
	return fmt.Sprintf("snapshot mismatch: %s expected %d, got %d", e.Field, e.Expected, e.Actual)
}
