// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// runtimeOptions holds configuration options for Runtime creation.
type runtimeOptions struct {
	logger       *logiface.Logger[logiface.Event]
	scheduler    Scheduler
	fatalHandler func(error)
	stackSize    int
}

// --- Runtime Options ---

// RuntimeOption configures a Runtime instance.
type RuntimeOption interface {
	applyRuntime(*runtimeOptions) error
}

// runtimeOptionImpl implements RuntimeOption.
type runtimeOptionImpl struct {
	applyRuntimeFunc func(*runtimeOptions) error
}

func (r *runtimeOptionImpl) applyRuntime(opts *runtimeOptions) error {
	return r.applyRuntimeFunc(opts)
}

// WithLogger sets the structured logger. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithScheduler sets the initial scheduling policy. Nil selects round-robin.
// The policy's Init is called by New.
func WithScheduler(scheduler Scheduler) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) error {
		opts.scheduler = scheduler
		return nil
	}}
}

// WithStackSize overrides the size of each thread's stack region, which
// otherwise follows the process's soft stack limit (8 MiB if unbounded).
// The size is rounded up to a whole number of pages.
func WithStackSize(size int) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) error {
		if size <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidStackSize, size)
		}
		opts.stackSize = size
		return nil
	}}
}

// WithFatalHandler sets the function called with errors from the fatal
// tier (allocation failure, broken bookkeeping invariants). The default
// panics, which terminates the process. A handler that returns lets the
// failed operation return a zero value, for testing.
func WithFatalHandler(handler func(error)) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) error {
		opts.fatalHandler = handler
		return nil
	}}
}

// resolveRuntimeOptions applies RuntimeOption instances to runtimeOptions.
func resolveRuntimeOptions(opts []RuntimeOption) (*runtimeOptions, error) {
	cfg := &runtimeOptions{
		fatalHandler: defaultFatalHandler,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.fatalHandler == nil {
		cfg.fatalHandler = defaultFatalHandler
	}
	return cfg, nil
}

func defaultFatalHandler(err error) {
	panic(err)
}
