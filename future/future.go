// Package future provides a small future/promise pair for observing the
// completion of asynchronous work.
//
// A Future[T] is the read-only side of a computation that will eventually
// settle with either a value or an error. The associated Promise[T] is the
// write side. Futures support blocking waits (with or without a context) and
// asynchronous completion callbacks.
package future

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Future is the consumer side of an asynchronous computation.
//
// A future settles exactly once. All waiters are unblocked simultaneously
// when the associated promise is fulfilled, and callbacks registered after
// settlement fire immediately.
type Future[T any] struct {
	once sync.Once

	// resultReady is closed exactly once when the future settles.
	// Closing a channel is a broadcast, so every waiter wakes up.
	resultReady chan struct{}

	value T
	err   error

	completed *atomic.Bool

	// mu guards callback registration against concurrent settlement.
	mu                sync.Mutex
	successCallbacks  []func(T)
	errorCallbacks    []func(error)
	completeCallbacks []func(T, error)
}

// New creates an unsettled future and the promise that fulfills it.
//
// The promise holds a reference to the future, not the other way around, so
// futures can be handed out without exposing the ability to complete them.
func New[T any]() (*Future[T], *Promise[T]) {
	fut := &Future[T]{
		resultReady: make(chan struct{}),
		completed:   atomic.NewBool(false),
	}

	return fut, &Promise[T]{future: fut}
}

// Go runs f in a new goroutine and returns a future that settles with f's
// result. A panic inside f settles the future with an error instead of
// crashing the process.
func Go[T any](f func() (T, error)) *Future[T] {
	fut, promise := New[T]()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				promise.Failure(recoveredError(r))
			}
		}()

		promise.Complete(f())
	}()

	return fut
}

// Done returns a channel that is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.resultReady
}

// IsCompleted reports whether the future has settled, without blocking.
func (f *Future[T]) IsCompleted() bool {
	return f.completed.Load()
}

// Get blocks until the future settles and returns its value and error.
// Multiple goroutines may call Get concurrently; all observe the same result.
func (f *Future[T]) Get() (T, error) { //nolint:ireturn
	<-f.resultReady

	return f.value, f.err
}

// Wait blocks until the future settles or the context is canceled.
// On cancellation the context's error is returned and the future itself
// remains unsettled from the caller's perspective.
func (f *Future[T]) Wait(ctx context.Context) (T, error) { //nolint:ireturn
	select {
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	case <-f.resultReady:
		return f.value, f.err
	}
}

// OnSuccess registers a callback invoked with the value if the future
// settles successfully. If the future has already settled with a value,
// the callback fires immediately. Callbacks run on their own goroutine.
func (f *Future[T]) OnSuccess(callback func(T)) {
	f.mu.Lock()

	if f.completed.Load() {
		value, err := f.value, f.err
		f.mu.Unlock()

		if err == nil {
			invokeCallback("OnSuccess", callback, value)
		}

		return
	}

	f.successCallbacks = append(f.successCallbacks, callback)
	f.mu.Unlock()
}

// OnError registers a callback invoked with the error if the future settles
// with a failure. If the future has already failed, the callback fires
// immediately. Callbacks run on their own goroutine.
func (f *Future[T]) OnError(callback func(error)) {
	f.mu.Lock()

	if f.completed.Load() {
		err := f.err
		f.mu.Unlock()

		if err != nil {
			invokeCallback("OnError", callback, err)
		}

		return
	}

	f.errorCallbacks = append(f.errorCallbacks, callback)
	f.mu.Unlock()
}

// OnComplete registers a callback invoked with the value and error once the
// future settles, regardless of outcome. If the future has already settled,
// the callback fires immediately. Callbacks run on their own goroutine.
func (f *Future[T]) OnComplete(callback func(T, error)) {
	f.mu.Lock()

	if f.completed.Load() {
		value, err := f.value, f.err
		f.mu.Unlock()

		invokeCompleteCallback("OnComplete", callback, value, err)

		return
	}

	f.completeCallbacks = append(f.completeCallbacks, callback)
	f.mu.Unlock()
}
