// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"errors"
	"fmt"
	"strconv"
)

// Standard errors.
var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("lwp: runtime already started")

	// ErrClosed is returned when operations are attempted on a closed runtime.
	ErrClosed = errors.New("lwp: runtime closed")

	// ErrCloseFromThread is returned when Close is called by a thread other
	// than the original context.
	ErrCloseFromThread = errors.New("lwp: close must be called from the original context")

	// ErrInvalidStackSize is returned by New for a non-positive WithStackSize.
	ErrInvalidStackSize = errors.New("lwp: invalid stack size")

	// ErrNotStarted indicates a switching operation before Start.
	ErrNotStarted = errors.New("lwp: runtime not started")

	// ErrNotInList indicates removal of a thread from a list it is not in.
	ErrNotInList = errors.New("lwp: thread not in list")

	// ErrAlreadyInList indicates a thread being added to a second list.
	ErrAlreadyInList = errors.New("lwp: thread already in a list")

	// ErrUnknownThread indicates an identifier with no live record.
	ErrUnknownThread = errors.New("lwp: unknown thread")

	// ErrStackReleased indicates a second release of the same stack region.
	ErrStackReleased = errors.New("lwp: stack already released")

	// ErrMisaligned indicates a stack region violating the platform alignment.
	ErrMisaligned = errors.New("lwp: stack misaligned")
)

// ConsistencyError reports a broken bookkeeping invariant. It belongs to the
// fatal tier: the runtime cannot safely continue past one.
type ConsistencyError struct {
	Err error
	Op  string
	ID  ID
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return "lwp: " + e.Op + " thread " + strconv.FormatUint(uint64(e.ID), 10) + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// AllocError reports a failure to allocate a thread's stack region. Like
// ConsistencyError it is fatal.
type AllocError struct {
	Err  error
	Size int
}

// Error implements the error interface.
func (e *AllocError) Error() string {
	return fmt.Sprintf("lwp: allocating %d byte stack: %v", e.Size, e.Err)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *AllocError) Unwrap() error {
	return e.Err
}
