// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"io"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Log field names.
const (
	fieldID        = "lwp"
	fieldNext      = "next"
	fieldStatus    = "status"
	fieldStackSize = "stack_size"
	fieldOp        = "op"
)

// logRateLimits bounds repetitive messages, per category.
var logRateLimits = map[time.Duration]int{
	time.Second: 10,
	time.Minute: 100,
}

// Rate-limited message categories.
const (
	limitWaitNoThread = "wait-no-thread"
)

// NewLogger returns a JSON logger writing to w, suitable for [WithLogger].
//
// Lifecycle events (create, exit, reap) are logged at debug, context
// switches at trace, and fatal errors at emergency. Repetitive events are
// rate limited by the runtime itself, whatever logger it is given.
func NewLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}
