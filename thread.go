// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"strconv"
)

// ID identifies a thread within one Runtime. Identifiers are strictly
// increasing and never reused.
type ID uint64

const (
	// NoThread is the sentinel for "no such thread".
	NoThread ID = 0
	// MainID is reserved for the original context, adopted by Start.
	MainID ID = 1
)

func (x ID) String() string {
	if x == NoThread {
		return "none"
	}
	return strconv.FormatUint(uint64(x), 10)
}

// Func is the body of a thread. Its return value becomes the exit status.
type Func func(arg any) int

// State is the lifecycle state of a thread.
//
//	Ready → Running      [scheduled]
//	Running → Ready      [Yield]
//	Running → Blocked    [Wait, nothing to reap]
//	Blocked → Ready      [a thread exits]
//	Running → Terminated [Exit, or Func returned]
//	Terminated → Reaped  [Wait] (terminal)
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateTerminated
	StateReaped
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateBlocked:
		return "Blocked"
	case StateTerminated:
		return "Terminated"
	case StateReaped:
		return "Reaped"
	default:
		return "Unknown"
	}
}

// Thread is a snapshot of a thread record, as returned by [Runtime.Lookup].
type Thread struct {
	ID        ID
	State     State
	Status    Status
	StackSize int
}

type thread struct {
	ctx   *regfile
	stack *stack
	fn    Func
	arg   any

	id ID
	// claim is a terminated thread handed to this waiter by exit.
	claim ID
	// claimedBy is the waiter holding a claim on this terminated thread.
	claimedBy ID

	code   int
	status Status
	state  State
	list   list

	// exiting is set by Exit before unwinding a created thread.
	exiting bool
}

func (t *thread) snapshot() Thread {
	v := Thread{
		ID:     t.id,
		State:  t.state,
		Status: t.status,
	}
	if t.stack != nil {
		v.StackSize = t.stack.size
	}
	return v
}
