package mounting

import (
	"errors"
	"fmt"
)

var (
	// ErrViewExists indicates a Create for a tag that already exists.
	ErrViewExists = errors.New(`mounting: view already exists`)

	// ErrUnknownView indicates a mutation referencing a tag that does not
	// exist, either as the child or the parent.
	ErrUnknownView = errors.New(`mounting: unknown view`)

	// ErrViewMounted indicates an Insert or Delete of a view that is mounted.
	ErrViewMounted = errors.New(`mounting: view is mounted`)

	// ErrViewNotMounted indicates a Remove of a view that is not mounted.
	ErrViewNotMounted = errors.New(`mounting: view is not mounted`)

	// ErrIndexOutOfRange indicates an Insert or Remove index that is invalid
	// for the parent's child list.
	ErrIndexOutOfRange = errors.New(`mounting: index out of range`)

	// ErrChildMismatch indicates the view a mutation expected to find (at an
	// index, or as the current attributes of a view) differs from the actual.
	ErrChildMismatch = errors.New(`mounting: child mismatch`)

	// ErrViewHasChildren indicates a Delete of a view that still has mounted
	// children.
	ErrViewHasChildren = errors.New(`mounting: view has children`)

	// ErrInvalidMutation indicates a mutation of an unknown type.
	ErrInvalidMutation = errors.New(`mounting: invalid mutation`)
)

// MutationError is returned when a mutation cannot be applied, identifying the
// failing mutation, by position within its list.
type MutationError struct {
	Err      error
	Mutation Mutation
	Index    int
}

// Error implements the error interface.
func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %d (%s): %v", e.Index, e.Mutation, e.Err)
}

// Unwrap returns the underlying cause, typically wrapping one of the
// package's sentinel errors.
func (e *MutationError) Unwrap() error { return e.Err }
