// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

// Scheduler is a scheduling policy. It owns the ready pool, which holds
// thread identifiers only; the runtime never inspects it directly, and a
// Scheduler never calls back into the runtime.
//
// Methods are only ever called by the context holding the logical CPU, so
// implementations need no locking.
type Scheduler interface {
	// Init is called when the policy is installed, before any Admit.
	Init()

	// Shutdown is called when the policy is replaced or the runtime closed.
	Shutdown()

	// Admit adds a thread to the pool. It must always succeed.
	Admit(id ID)

	// Remove deletes a thread from the pool. A thread that is not in the
	// pool indicates a bookkeeping bug, and must panic.
	Remove(id ID)

	// Next selects the thread to run next, or returns NoThread if the pool is
	// empty. The selected thread stays in the pool.
	Next() ID

	// Len returns the number of threads in the pool.
	Len() int
}
