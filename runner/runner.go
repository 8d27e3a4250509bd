// Package runner provides a finite-state-machine runner: a single current
// state advanced by consuming externally queued actions one at a time, in
// arrival order, without blocking the code that queues them.
//
// A Runner is built from a transition table (state -> action kind -> handler)
// and an initial state. Dispatch appends an action to an unbounded queue and
// never fails; while the runner is started, a scheduler drains the queue one
// action per tick, invoking the matching handler and adopting its returned
// state. At most one handler is ever in flight, and a deliberate yield
// between actions gives concurrent dispatchers and stop requests a
// checkpoint between every two handler invocations.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amp-labs/fsm/future"
)

// Status is the runner's lifecycle status.
type Status int

const (
	// StatusStopped means the runner is idle; dispatched actions accumulate
	// but are not processed.
	StatusStopped Status = iota
	// StatusRunning means the scheduler drains the queue as actions arrive.
	StatusRunning
	// StatusStopPending means a stop has been requested and will be honored
	// at the next scheduler checkpoint.
	StatusStopPending
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	case StatusStopPending:
		return "stop_pending"
	default:
		return "unknown"
	}
}

// action is one buffered occurrence of an action kind plus its payload.
type action[A comparable] struct {
	kind    A
	payload any
}

// Runner owns the transition table, the current state, the pending-action
// queue and the run/stop lifecycle. It is safe for concurrent use; all
// mutable fields are funneled through a single mutex so the at-most-one-
// handler invariant holds under real parallelism.
type Runner[S comparable, A comparable] struct {
	name     string
	ctx      context.Context
	table    Table[S, A]
	observer Observer[S, A]

	mu      sync.Mutex
	status  Status
	armed   bool
	current S
	queue   fifo[action[A]]
	stops   []*future.Promise[S]
}

// Option configures a Runner at construction time.
type Option[S comparable, A comparable] func(*Runner[S, A])

// WithName sets the runner's name, used for logging, metrics labels and
// trace attributes. Defaults to a short random identifier.
func WithName[S comparable, A comparable](name string) Option[S, A] {
	return func(r *Runner[S, A]) {
		r.name = name
	}
}

// WithContext sets the base context passed to transition handlers. Canceling
// it does not abort an in-flight handler by itself, but handlers that honor
// cancellation will observe it. Defaults to context.Background().
func WithContext[S comparable, A comparable](ctx context.Context) Option[S, A] {
	return func(r *Runner[S, A]) {
		r.ctx = ctx
	}
}

// WithObserver attaches an observer that is notified of dispatches,
// transitions, discards and lifecycle changes. Observers are notification
// hooks only; they cannot influence transitions.
func WithObserver[S comparable, A comparable](observer Observer[S, A]) Option[S, A] {
	return func(r *Runner[S, A]) {
		r.observer = observer
	}
}

// New creates a stopped Runner holding the given transition table and
// initial state. No handler runs at construction time. The table is copied;
// later changes to the caller's map are not observed.
func New[S comparable, A comparable](table Table[S, A], initial S, opts ...Option[S, A]) *Runner[S, A] {
	r := &Runner[S, A]{
		table:   table.clone(),
		current: initial,
		status:  StatusStopped,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.name == "" {
		r.name = "runner-" + uuid.NewString()[:8]
	}

	if r.ctx == nil {
		r.ctx = context.Background()
	}

	if r.observer == nil {
		r.observer = nopObserver[S, A]{}
	}

	runnerUp.WithLabelValues(r.name).Set(0)

	return r
}

// Name returns the runner's name.
func (r *Runner[S, A]) Name() string {
	return r.name
}

// Current returns the current state. It reflects the last successfully
// completed transition, or the initial state if none has occurred.
func (r *Runner[S, A]) Current() S { //nolint:ireturn
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// Status returns the runner's lifecycle status.
func (r *Runner[S, A]) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

// Len returns the number of actions currently buffered in the queue.
func (r *Runner[S, A]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.queue.len()
}

// Dispatch appends (kind, payload) to the tail of the action queue. It never
// fails and never blocks on processing: dispatching while stopped simply
// accumulates the action for a later Start. While running, the scheduler is
// armed so the new action drains without any external trigger.
func (r *Runner[S, A]) Dispatch(kind A, payload any) {
	r.mu.Lock()

	r.queue.push(action[A]{kind: kind, payload: payload})
	depth := r.queue.len()

	if r.status == StatusRunning {
		r.arm()
	}

	r.mu.Unlock()

	dispatchedActions.WithLabelValues(r.name).Inc()
	queueDepth.WithLabelValues(r.name).Set(float64(depth))

	r.observer.ActionDispatched(r.ctx, kind)
}

// Start begins draining the queue. Calling Start on a runner that is already
// running, or that has a stop pending, is a no-op: it neither creates a
// second draining loop nor cancels the pending stop. Start returns once the
// request is recorded; it does not wait for any action to be processed.
func (r *Runner[S, A]) Start() {
	r.mu.Lock()

	if r.status != StatusStopped {
		r.mu.Unlock()

		return
	}

	r.status = StatusRunning
	state := r.current

	r.arm()
	r.mu.Unlock()

	runnerUp.WithLabelValues(r.name).Set(1)

	r.observer.RunnerStarted(r.ctx, state)
}

// Stop requests that draining pause at the next scheduler checkpoint. The
// returned future settles with the then-current state once the runner has
// actually reached StatusStopped: after the in-flight handler, if any, has
// completed and its result has been adopted. Actions still buffered remain
// queued for a future Start.
//
// Stop is accepted in any status. Stopping an already stopped runner settles
// on the next tick, and overlapping Stop calls are all honored: every
// returned future settles, none is dropped.
func (r *Runner[S, A]) Stop() *future.Future[S] {
	fut, promise := future.New[S]()

	r.mu.Lock()

	r.stops = append(r.stops, promise)
	r.status = StatusStopPending

	r.arm()
	r.mu.Unlock()

	return fut
}

// arm schedules a processing tick unless one is already outstanding. The
// caller must hold r.mu. The single armed flag is the re-entrancy guard that
// keeps at most one tick chain alive, which in turn guarantees at most one
// handler in flight.
func (r *Runner[S, A]) arm() {
	if r.armed {
		return
	}

	r.armed = true

	go r.tick()
}

// tick performs one scheduler step: honor a pending stop, or process exactly
// one queued action, then either hand off to a fresh goroutine (the forced
// yield between actions) or go idle.
func (r *Runner[S, A]) tick() {
	r.mu.Lock()

	if r.status == StatusStopPending {
		r.mu.Unlock()
		r.settle(nil)

		return
	}

	if r.status != StatusRunning || r.queue.empty() {
		r.armed = false
		r.mu.Unlock()

		return
	}

	act := r.queue.pop()
	depth := r.queue.len()
	state := r.current
	handler, registered := r.table[state][act.kind]

	r.mu.Unlock()

	queueDepth.WithLabelValues(r.name).Set(float64(depth))

	if !registered {
		// Unhandled action in this state: drop it, keep the state. This is
		// deliberate no-op semantics, not an error path.
		discardedActions.WithLabelValues(r.name).Inc()

		r.observer.ActionDiscarded(r.ctx, state, act.kind)
	} else {
		next, elapsed, err := r.invoke(state, act, handler)
		if err != nil {
			r.settle(err)

			return
		}

		r.mu.Lock()
		r.current = next
		r.mu.Unlock()

		transitions.WithLabelValues(r.name, valueLabel(state), valueLabel(next)).Inc()

		r.observer.TransitionApplied(r.ctx, state, next, act.kind, elapsed)
	}

	r.mu.Lock()

	if r.status == StatusStopPending || (r.status == StatusRunning && !r.queue.empty()) {
		r.mu.Unlock()

		// Stay armed but start a fresh goroutine: concurrent dispatchers are
		// never starved and stop requests get a checkpoint before the next
		// action is taken.
		go r.tick()

		return
	}

	r.armed = false
	r.mu.Unlock()
}

// invoke runs a single transition handler with panic recovery, tracing and
// timing. A panic is converted into a handler failure rather than crashing
// the scheduler goroutine.
func (r *Runner[S, A]) invoke(state S, act action[A], handler Handler[S]) (next S, elapsed time.Duration, err error) { //nolint:ireturn
	ctx, span := startActionSpan(r.ctx, r.name, state, act.kind)
	defer span.End()

	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			handlerPanics.WithLabelValues(r.name).Inc()

			err = panicError(rec)
		}

		elapsed = time.Since(start)

		if err != nil {
			err = wrapHandlerError(state, act.kind, err)

			recordSpanError(span, err)
			handlerDuration.WithLabelValues(r.name, outcomeError).Observe(elapsed.Seconds())
		} else {
			recordSpanOK(span)
			handlerDuration.WithLabelValues(r.name, outcomeSuccess).Observe(elapsed.Seconds())
			processedActions.WithLabelValues(r.name).Inc()
		}
	}()

	next, err = handler(ctx, act.payload)

	return next, elapsed, err
}

// settle moves the runner to StatusStopped and releases every pending stop
// future. With a nil error this is an orderly stop and the futures succeed
// with the current state; with a handler error the draining loop is
// terminated, the last committed state stays in place and the futures fail
// with that error so no caller is left hanging.
func (r *Runner[S, A]) settle(err error) {
	r.mu.Lock()

	r.status = StatusStopped
	r.armed = false

	promises := r.stops
	r.stops = nil
	state := r.current

	r.mu.Unlock()

	runnerUp.WithLabelValues(r.name).Set(0)

	r.observer.RunnerStopped(r.ctx, state, err)

	for _, promise := range promises {
		if err != nil {
			promise.Failure(err)
		} else {
			promise.Success(state)
		}
	}
}
