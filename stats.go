// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

// Stats are cumulative counters for one Runtime.
type Stats struct {
	// Created counts threads created by Create (excluding the original
	// context).
	Created uint64
	// Reaped counts threads released by Wait.
	Reaped uint64
	// Switches counts context switches.
	Switches uint64
	// Yields counts calls to Yield.
	Yields uint64
	// Blocked counts the times Wait blocked the caller.
	Blocked uint64
	// Live is the number of records not yet reaped.
	Live int
	// Ready is the size of the ready pool.
	Ready int
	// Waiting is the size of the blocked-waiters list.
	Waiting int
	// Terminated is the size of the terminated-unreaped list.
	Terminated int
}
