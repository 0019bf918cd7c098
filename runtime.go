// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"errors"
	"runtime"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-lwp/internal/ring"
	"github.com/joeycumines/logiface"
)

const listInitialSize = 8

// Runtime multiplexes lightweight threads onto one logical thread of
// execution. Exactly one thread holds the logical CPU at any instant; the
// others are parked until a Yield, Exit or blocking Wait switches to them.
//
// Every record is, at any instant, in exactly one of the scheduler's ready
// pool, the blocked-waiters list and the terminated-unreaped list, or in
// none while a switching operation moves it between them. The running thread
// stays in the ready pool.
//
// A Runtime is not safe for use by arbitrary goroutines: its methods must be
// called by the original context (the goroutine that calls Start) or by the
// threads it runs.
type Runtime struct {
	// Prevent copying
	_ [0]func()

	logger       *logiface.Logger[logiface.Event]
	limiter      *catrate.Limiter
	fatalHandler func(error)
	sched        Scheduler
	arena        *arena
	waiting      *ring.Ring[ID]
	terminated   *ring.Ring[ID]
	current      *thread
	main         *thread

	stats     Stats
	stackSize int

	started bool
	closed  bool
}

// New creates a Runtime. Threads may be created before Start, but none runs
// until Start is called.
func New(opts ...RuntimeOption) (*Runtime, error) {
	cfg, err := resolveRuntimeOptions(opts)
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		logger:       cfg.logger,
		limiter:      catrate.NewLimiter(logRateLimits),
		fatalHandler: cfg.fatalHandler,
		sched:        cfg.scheduler,
		arena:        newArena(),
		waiting:      ring.New[ID](listInitialSize),
		terminated:   ring.New[ID](listInitialSize),
		stackSize:    resolveStackSize(cfg.stackSize),
	}
	if r.sched == nil {
		r.sched = NewRoundRobin()
	}
	r.sched.Init()

	r.logger.Debug().
		Int(fieldStackSize, r.stackSize).
		Log("lwp runtime created")

	return r, nil
}

// Create allocates a thread that will run fn(arg), admits it to the
// scheduler, and returns its identifier. The thread's stack region is sized
// per [WithStackSize]. Failure to allocate is fatal.
func (r *Runtime) Create(fn Func, arg any) ID {
	if r.closed {
		r.fatal(&ConsistencyError{Op: "create", Err: ErrClosed})
		return NoThread
	}

	s, err := newStack(r.stackSize)
	if err != nil {
		r.fatal(err)
		return NoThread
	}

	t := &thread{
		id:    r.arena.alloc(),
		stack: s,
		fn:    fn,
		arg:   arg,
		code:  ExitAbnormal,
	}
	t.ctx = newRegfile(func() { r.trampoline(t) })
	r.arena.put(t)
	r.admit(t)
	r.stats.Created++

	r.logger.Debug().
		Stringer(fieldID, t.id).
		Int(fieldStackSize, s.size).
		Log("lwp created")

	return t.id
}

// trampoline is the entry point of every created thread. It never returns
// normally to the thread: the deferred terminate hands the logical CPU on,
// after which the goroutine ends.
func (r *Runtime) trampoline(t *thread) {
	defer r.terminate(t)
	t.code = t.fn(t.arg)
	t.exiting = true
}

// terminate runs last on a created thread's goroutine, after any deferred
// calls of the thread itself.
func (r *Runtime) terminate(t *thread) {
	if r.closed {
		// unwound by Close
		return
	}
	if v := recover(); v != nil {
		r.logger.Crit().
			Stringer(fieldID, t.id).
			Any("panic", v).
			Log("lwp panicked")
		panic(v)
	}
	if !t.exiting {
		// runtime.Goexit from somewhere other than Exit
		r.logger.Warning().
			Stringer(fieldID, t.id).
			Log("lwp unwound without exit")
	}
	if next := r.exit(t); next != nil && next != t {
		transfer(next.ctx)
	}
}

// Yield hands the logical CPU to the next thread the scheduler selects, and
// returns when the caller is next selected. If the scheduler has nothing to
// run, the caller exits with [ExitNoRunnable]. It returns immediately for the
// original context once that has exited.
func (r *Runtime) Yield() {
	t := r.mustCurrent("yield")
	if t == nil || t.list != listReady {
		// the original context after its own Exit: nothing to give up
		return
	}
	r.stats.Yields++

	next := r.next()
	if next == nil {
		r.Exit(ExitNoRunnable)
		return
	}
	if next == t {
		return
	}
	r.switchFrom(t, next)
}

// Exit terminates the calling thread, with the low 8 bits of status as its
// exit code. The thread's resources are kept until it is reaped by Wait.
//
// A created thread never returns from Exit: its deferred calls run, then its
// goroutine ends. The original context returns from Exit only once no other
// thread is runnable, so that it can go on to Wait for the rest; further
// calls to Exit from it have no effect.
func (r *Runtime) Exit(status int) {
	t := r.mustCurrent("exit")
	if t == nil || t.state == StateTerminated {
		return
	}
	t.code = status
	if t.stack != nil {
		t.exiting = true
		runtime.Goexit()
	}
	if next := r.exit(t); next != nil && next != t {
		swapRfiles(t.ctx, next.ctx)
	}
}

// exit moves t from the ready pool to the terminated list, wakes the oldest
// waiter (if any), and selects the context to resume. It returns nil if t is
// the original context and nothing else is runnable.
func (r *Runtime) exit(t *thread) *thread {
	if !r.deschedule(t, "exit") {
		if t == r.main {
			return nil
		}
		r.setCurrent(r.main)
		return r.main
	}
	t.state = StateTerminated
	t.status = MakeStatus(StatusTerminated, t.code)
	r.enter(t, listTerminated, "exit")
	r.terminated.PushBack(t.id)

	if id, ok := r.waiting.PopFront(); ok {
		w := r.arena.get(id)
		if w == nil {
			r.fatal(&ConsistencyError{Op: "wake", ID: id, Err: ErrUnknownThread})
		} else if r.leave(w, listWaiting, "wake") {
			// only the original context may reap itself
			if t != r.main {
				w.claim = t.id
				t.claimedBy = w.id
			}
			r.admit(w)
		}
	}

	r.logger.Debug().
		Stringer(fieldID, t.id).
		Int(fieldStatus, t.status.Code()).
		Log("lwp exited")

	next := r.next()
	if next == nil {
		if t == r.main {
			return nil
		}
		// nothing runnable: fall back to the original context
		next = r.main
	}
	r.setCurrent(next)
	r.stats.Switches++
	r.logger.Trace().
		Stringer(fieldID, t.id).
		Stringer(fieldNext, next.id).
		Log("lwp switch")
	return next
}

// Wait reaps a terminated thread, returning its identifier and, if status is
// non-nil, storing its termination status. Terminated threads are reaped
// oldest first. If none has terminated, the caller blocks until one does,
// unless no other thread is runnable, in which case Wait returns NoThread
// rather than block forever.
func (r *Runtime) Wait(status *Status) ID {
	for {
		if t := r.takeTerminated(); t != nil {
			return r.reap(t, status)
		}

		self := r.current
		if self == nil || self.list != listReady || r.sched.Len() <= 1 {
			if _, ok := r.limiter.Allow(limitWaitNoThread); ok {
				r.logger.Debug().
					Stringer(fieldID, r.CurrentID()).
					Log("lwp wait: no thread could terminate")
			}
			return NoThread
		}

		r.block(self)
	}
}

// takeTerminated detaches the next record for the caller to reap: its claim
// if exit handed it one, otherwise the oldest unclaimed terminated record.
// The original context's record is only reaped by the original context.
func (r *Runtime) takeTerminated() *thread {
	if self := r.current; self != nil && self.claim != NoThread {
		id := self.claim
		self.claim = NoThread
		t := r.arena.get(id)
		if t == nil || !r.terminated.Remove(id) {
			r.fatal(&ConsistencyError{Op: "reap", ID: id, Err: ErrNotInList})
			return nil
		}
		t.claimedBy = NoThread
		r.leave(t, listTerminated, "reap")
		return t
	}

	for i := 0; i < r.terminated.Len(); i++ {
		t := r.arena.get(r.terminated.Get(i))
		if t == nil {
			r.fatal(&ConsistencyError{Op: "reap", ID: r.terminated.Get(i), Err: ErrUnknownThread})
			return nil
		}
		if t.claimedBy != NoThread || (t == r.main && r.current != r.main) {
			continue
		}
		r.terminated.RemoveAt(i)
		r.leave(t, listTerminated, "reap")
		return t
	}
	return nil
}

// reap releases a detached terminated record. This is the only place a
// stack is released while the runtime is open.
func (r *Runtime) reap(t *thread, status *Status) ID {
	if status != nil {
		*status = t.status
	}

	// the thread's goroutine may still be unwinding past its final hand-off
	join(t.ctx)

	if t.stack != nil {
		if !t.stack.intact() {
			r.logger.Warning().
				Stringer(fieldID, t.id).
				Log("lwp stack canary clobbered")
		}
		if err := t.stack.release(); err != nil {
			r.fatal(&ConsistencyError{Op: "reap", ID: t.id, Err: err})
		}
		t.stack = nil
	}

	t.state = StateReaped
	r.arena.drop(t.id)
	r.stats.Reaped++

	r.logger.Debug().
		Stringer(fieldID, t.id).
		Int(fieldStatus, t.status.Code()).
		Log("lwp reaped")

	return t.id
}

// block moves the caller from the ready pool to the waiters list and
// switches away. It returns once the caller has been woken and rescheduled.
func (r *Runtime) block(self *thread) {
	if !r.deschedule(self, "block") {
		return
	}
	self.state = StateBlocked
	r.enter(self, listWaiting, "block")
	r.waiting.PushBack(self.id)
	r.stats.Blocked++

	next := r.next()
	if next == nil {
		r.fatal(&ConsistencyError{Op: "block", ID: self.id, Err: ErrNotInList})
		return
	}
	r.switchFrom(self, next)
}

// Start adopts the calling goroutine as the original context (MainID),
// admits it to the scheduler, and switches to the first scheduled thread.
// It returns nil once the original context is scheduled again.
func (r *Runtime) Start() error {
	if r.closed {
		return ErrClosed
	}
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true

	// the original context already has a stack
	r.main = &thread{
		id:   MainID,
		ctx:  newRegfile(nil),
		code: ExitAbnormal,
	}
	r.arena.put(r.main)
	r.admit(r.main)
	r.setCurrent(r.main)

	r.logger.Debug().
		Int("ready", r.sched.Len()).
		Log("lwp runtime started")

	if next := r.next(); next != nil && next != r.main {
		r.switchFrom(r.main, next)
	}
	return nil
}

// CurrentID returns the identifier of the running thread, or NoThread if
// the runtime has not been started.
func (r *Runtime) CurrentID() ID {
	if r.current == nil {
		return NoThread
	}
	return r.current.id
}

// Lookup returns a snapshot of a thread in the ready pool, the terminated
// list or the waiters list. Reaped and unknown identifiers are not found.
func (r *Runtime) Lookup(id ID) (Thread, bool) {
	t := r.arena.get(id)
	if t == nil {
		return Thread{}, false
	}
	switch t.list {
	case listReady, listTerminated, listWaiting:
		return t.snapshot(), true
	default:
		return Thread{}, false
	}
}

// Threads returns a snapshot of every thread not yet reaped, by identifier.
func (r *Runtime) Threads() []Thread {
	ids := r.arena.ids()
	threads := make([]Thread, 0, len(ids))
	for _, id := range ids {
		threads = append(threads, r.arena.get(id).snapshot())
	}
	return threads
}

// Stack returns the calling thread's stack region, for use as thread-private
// memory. It is nil for the original context, and must not be retained past
// the thread's termination.
func (r *Runtime) Stack() []byte {
	if r.current == nil || r.current.stack == nil {
		return nil
	}
	return r.current.stack.usable()
}

// Stats returns the runtime's counters.
func (r *Runtime) Stats() Stats {
	s := r.stats
	s.Live = r.arena.len()
	s.Ready = r.sched.Len()
	s.Waiting = r.waiting.Len()
	s.Terminated = r.terminated.Len()
	return s
}

// SetScheduler installs a scheduling policy, nil meaning a new round-robin.
// The new policy is initialised, the previous policy's ready pool is migrated
// in selection order, and the previous policy is shut down.
func (r *Runtime) SetScheduler(s Scheduler) {
	if s == nil {
		s = NewRoundRobin()
	}
	old := r.sched
	if s == old {
		return
	}
	s.Init()
	for n := old.Len(); n > 0; n-- {
		id := old.Next()
		old.Remove(id)
		s.Admit(id)
	}
	old.Shutdown()
	r.sched = s

	r.logger.Debug().
		Int("ready", s.Len()).
		Log("lwp scheduler replaced")
}

// Scheduler returns the active scheduling policy.
func (r *Runtime) Scheduler() Scheduler {
	return r.sched
}

// Close tears the runtime down: suspended threads are unwound (running their
// deferred calls, which must not use the runtime), every stack still owned is
// released, and the scheduler is shut down. It must be called by the
// original context, or before Start. Close is idempotent.
func (r *Runtime) Close() error {
	if r.closed {
		return nil
	}
	if r.current != nil && r.current != r.main {
		return ErrCloseFromThread
	}
	r.closed = true

	var errs []error
	for _, id := range r.arena.ids() {
		t := r.arena.get(id)
		if t == r.main {
			continue
		}
		if t.state == StateTerminated {
			join(t.ctx)
		} else {
			abort(t.ctx)
		}
		if t.stack != nil {
			if err := t.stack.release(); err != nil {
				errs = append(errs, &ConsistencyError{Op: "close", ID: id, Err: err})
			}
			t.stack = nil
		}
		r.arena.drop(id)
	}
	r.arena.drop(MainID)
	r.sched.Shutdown()
	r.current = nil

	r.logger.Debug().Log("lwp runtime closed")

	return errors.Join(errs...)
}

// next asks the scheduler for a thread, resolving it through the arena.
func (r *Runtime) next() *thread {
	id := r.sched.Next()
	if id == NoThread {
		return nil
	}
	t := r.arena.get(id)
	if t == nil || t.list != listReady {
		r.fatal(&ConsistencyError{Op: "next", ID: id, Err: ErrUnknownThread})
		return nil
	}
	return t
}

// switchFrom makes next current and switches to it from t.
func (r *Runtime) switchFrom(t, next *thread) {
	if t.state == StateRunning {
		t.state = StateReady
	}
	r.setCurrent(next)
	r.stats.Switches++

	r.logger.Trace().
		Stringer(fieldID, t.id).
		Stringer(fieldNext, next.id).
		Log("lwp switch")

	swapRfiles(t.ctx, next.ctx)
}

func (r *Runtime) setCurrent(t *thread) {
	r.current = t
	if t.state == StateReady {
		t.state = StateRunning
	}
}

func (r *Runtime) admit(t *thread) {
	if !r.enter(t, listReady, "admit") {
		return
	}
	t.state = StateReady
	r.sched.Admit(t.id)
}

// deschedule removes t from the ready pool, reporting false (after the
// fatal handler returns) if it was not there.
func (r *Runtime) deschedule(t *thread, op string) bool {
	if !r.leave(t, listReady, op) {
		return false
	}
	r.sched.Remove(t.id)
	return true
}

// enter tags t as a member of l, which must be its only list.
func (r *Runtime) enter(t *thread, l list, op string) bool {
	if t.list != listNone {
		r.fatal(&ConsistencyError{Op: op + " " + l.String(), ID: t.id, Err: ErrAlreadyInList})
		return false
	}
	t.list = l
	return true
}

// leave clears t's membership of l, which it must hold.
func (r *Runtime) leave(t *thread, l list, op string) bool {
	if t.list != l {
		r.fatal(&ConsistencyError{Op: op + " " + l.String(), ID: t.id, Err: ErrNotInList})
		return false
	}
	t.list = listNone
	return true
}

func (r *Runtime) mustCurrent(op string) *thread {
	if r.current == nil {
		err := ErrNotStarted
		if r.closed {
			err = ErrClosed
		}
		r.fatal(&ConsistencyError{Op: op, Err: err})
		return nil
	}
	return r.current
}

// fatal reports an error from the fatal tier.
func (r *Runtime) fatal(err error) {
	b := r.logger.Emerg().Err(err)
	var ce *ConsistencyError
	if errors.As(err, &ce) {
		b = b.Str(fieldOp, ce.Op).Stringer(fieldID, ce.ID)
	}
	b.Log("lwp fatal")
	r.fatalHandler(err)
}
