// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"github.com/joeycumines/go-lwp/internal/ring"
)

const roundRobinInitialSize = 16

// RoundRobin is the default [Scheduler]: a FIFO ring. Next takes the head and
// re-admits it at the tail, so repeated calls cycle through every ready
// thread in admission order.
type RoundRobin struct {
	pool *ring.Ring[ID]
}

var _ Scheduler = (*RoundRobin)(nil)

// NewRoundRobin returns an empty round-robin policy.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{pool: ring.New[ID](roundRobinInitialSize)}
}

// Init is a no-op, the pool is the policy's only state.
func (x *RoundRobin) Init() {}

// Shutdown is a no-op.
func (x *RoundRobin) Shutdown() {}

func (x *RoundRobin) Admit(id ID) {
	x.pool.PushBack(id)
}

func (x *RoundRobin) Remove(id ID) {
	if !x.pool.Remove(id) {
		panic(&ConsistencyError{Op: "remove", ID: id, Err: ErrNotInList})
	}
}

// Next rotates the pool, even if the caller does not resume the result.
func (x *RoundRobin) Next() ID {
	id, ok := x.pool.PopFront()
	if !ok {
		return NoThread
	}
	x.pool.PushBack(id)
	return id
}

func (x *RoundRobin) Len() int {
	return x.pool.Len()
}

// Pool returns the ready pool, head first.
func (x *RoundRobin) Pool() []ID {
	return x.pool.Slice()
}
