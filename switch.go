// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"runtime"
)

// resumeKind is delivered to a parked context to resume it.
type resumeKind uint8

const (
	resumeRun resumeKind = iota
	resumeAbort
)

// regfile is the saved execution state of one context. Each context is
// backed by a goroutine, parked on resume whenever another context holds the
// logical CPU. The goroutine of a created thread is launched by the first
// switch into it, running entry (the trampoline).
//
// All fields are only touched by whichever context currently holds the
// logical CPU, the channel hand-off providing the ordering.
type regfile struct {
	resume  chan resumeKind
	done    chan struct{}
	entry   func()
	started bool
}

// newRegfile returns a context that begins at entry. A nil entry describes a
// context that is already running (the original context).
func newRegfile(entry func()) *regfile {
	x := &regfile{
		resume: make(chan resumeKind, 1),
		entry:  entry,
	}
	if entry == nil {
		x.started = true
	} else {
		x.done = make(chan struct{})
	}
	return x
}

func (x *regfile) run() {
	defer close(x.done)
	x.entry()
}

// swapRfiles saves the caller into save and resumes load. It returns when
// some later switch targets save again.
func swapRfiles(save, load *regfile) {
	transfer(load)
	park(save)
}

// transfer hands the logical CPU to load without parking the caller. The
// caller must not touch runtime state afterwards.
func transfer(load *regfile) {
	if !load.started {
		load.started = true
		go load.run()
		return
	}
	load.resume <- resumeRun
}

func park(save *regfile) {
	if <-save.resume == resumeAbort {
		runtime.Goexit()
	}
}

// abort unwinds a suspended context and waits for its goroutine to end.
// Contexts that never ran have no goroutine.
func abort(x *regfile) {
	if x.done == nil || !x.started {
		return
	}
	x.resume <- resumeAbort
	<-x.done
}

// join waits for the goroutine of a context that has handed off for the last
// time.
func join(x *regfile) {
	if x.done != nil && x.started {
		<-x.done
	}
}
