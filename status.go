// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"strconv"
)

// Status is a packed termination status, in the same layout as a
// conventional process exit status: the liveness flag above bit 8, and the
// low-order exit code byte below it.
type Status uint32

const (
	// StatusLive marks a thread that has not terminated.
	StatusLive Status = 0
	// StatusTerminated marks a thread that has terminated.
	StatusTerminated Status = 1

	statusOffset = 8
	codeMask     = 0xFF
)

const (
	// ExitNoRunnable is the exit code used when a thread yields and the
	// scheduler has nothing for it to run, itself included.
	ExitNoRunnable = 0xFF

	// ExitAbnormal is the exit code of a thread whose goroutine was unwound
	// (runtime.Goexit) without calling Exit.
	ExitAbnormal = 0xFF
)

// MakeStatus packs a state flag and an exit code. Only the low 8 bits of
// code are retained.
func MakeStatus(state Status, code int) Status {
	return state<<statusOffset | Status(code)&codeMask
}

// Terminated reports whether the status carries the terminated flag.
func (s Status) Terminated() bool {
	return (s>>statusOffset)&StatusTerminated == StatusTerminated
}

// Code returns the low-order exit code byte.
func (s Status) Code() int {
	return int(s & codeMask)
}

func (s Status) String() string {
	if !s.Terminated() {
		return "live"
	}
	return "terminated(" + strconv.Itoa(s.Code()) + ")"
}
