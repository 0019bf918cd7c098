// Package lwp provides a cooperative lightweight-process (LWP) runtime:
// many logical threads multiplexed onto a single logical thread of
// execution, switching only at explicit yield points, with no preemption.
//
// # Architecture
//
// A [Runtime] owns every thread record, in an arena keyed by [ID]. The
// ready pool belongs to the active [Scheduler] ([RoundRobin] by default),
// which deals only in identifiers. The runtime keeps two further FIFO lists:
// threads blocked in [Runtime.Wait], and terminated threads not yet reaped.
// Every record is in exactly one of the three, except transiently during a
// switching operation.
//
// Each thread is backed by a goroutine, parked whenever another thread holds
// the logical CPU; a context switch wakes the target and parks the caller.
// Each created thread also owns a dedicated, page-aligned stack region,
// sized from the process's stack limit, which is released exactly once, when
// the thread is reaped by Wait.
//
// # Lifecycle
//
//	Create → Ready ⇄ Running → Terminated → Reaped
//	                 Running → Blocked → Ready
//
// [Runtime.Start] adopts the calling goroutine as the original context
// ([MainID]) and runs the first scheduled thread. When a thread exits and
// nothing else is runnable, control returns to the original context, which
// can then reap the rest with Wait.
//
// # Errors
//
// Two tiers: allocation failures and broken bookkeeping invariants
// ([AllocError], [ConsistencyError]) are fatal, reported through
// [WithFatalHandler] (panicking by default); Wait returning [NoThread] and
// Lookup reporting false are ordinary results.
//
// # Usage
//
//	r, err := lwp.New(lwp.WithLogger(lwp.NewLogger(os.Stderr, logiface.LevelInformational)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for i := 1; i <= 3; i++ {
//	    r.Create(func(arg any) int {
//	        r.Yield()
//	        return arg.(int)
//	    }, i*10)
//	}
//
//	if err := r.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
//	var status lwp.Status
//	for id := r.Wait(&status); id != lwp.NoThread; id = r.Wait(&status) {
//	    fmt.Println(id, status.Code())
//	}
package lwp
