package vgr

import (
	"errors"
	"fmt"
)

// Package errors. These classify every failure mode of the prepare/render
// path so callers can distinguish per-geom problems (skip the shape) from
// frame-level problems (skip the frame).
var (
	// ErrDegenerateGeometry is returned when a primitive cannot be
	// tessellated: zero radius, coincident endpoints, zero stroke width.
	// Recoverable; the shape contributes nothing to the frame.
	ErrDegenerateGeometry = errors.New("vgr: degenerate geometry")

	// ErrDimensionMismatch is returned when texture content is replaced
	// with pixel data of different dimensions. Recoverable; the previous
	// texture data and its GPU allocation are left intact.
	ErrDimensionMismatch = errors.New("vgr: texture dimension mismatch")

	// ErrAllocationFailed is returned when the GPU refuses an allocation.
	// Recoverable at the frame level: Prepare aborts and the caller may
	// retry next tick.
	ErrAllocationFailed = errors.New("vgr: gpu allocation failed")

	// ErrInternalInvariant signals corrupted cache or mesh-builder state.
	// This is a programming-error signal, logged with full context; the
	// affected geom is skipped rather than aborting the process.
	ErrInternalInvariant = errors.New("vgr: internal invariant violation")

	// ErrTooManyStops is returned when a gradient material carries more
	// color stops than the fixed uniform encoding can hold.
	ErrTooManyStops = errors.New("vgr: too many gradient stops")

	// ErrRendererClosed is returned when operating on a closed renderer.
	ErrRendererClosed = errors.New("vgr: renderer closed")
)

// GeomError wraps a per-geom failure with the geom's position in the frame
// list, so diagnostics can point at the offending shape.
type GeomError struct {
	// Index is the flattened depth-first position of the geom in the
	// frame's input list.
	Index int

	// Err is the underlying failure.
	Err error
}

func (e *GeomError) Error() string {
	return fmt.Sprintf("vgr: geom %d: %v", e.Index, e.Err)
}

func (e *GeomError) Unwrap() error { return e.Err }

// allocErr classifies a backend resource-creation failure as an allocation
// failure. Prepare treats these as frame-fatal.
func allocErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrAllocationFailed, what, err)
}
