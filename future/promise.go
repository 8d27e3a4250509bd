package future

// Promise is the producer side of an asynchronous computation.
//
// A promise can only be fulfilled once: later calls to Success, Failure or
// Complete are no-ops. Fulfillment is safe from any goroutine and unblocks
// every goroutine waiting on the associated future.
type Promise[T any] struct {
	future *Future[T]
}

// Future returns the read side associated with this promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Success fulfills the promise with a value.
func (p *Promise[T]) Success(value T) {
	p.fulfill(value, nil)
}

// Failure fulfills the promise with an error. The future's value is the
// zero value of T.
func (p *Promise[T]) Failure(err error) {
	var zero T

	p.fulfill(zero, err)
}

// Complete fulfills the promise from a (value, error) pair, matching Go's
// usual return shape. A non-nil error wins over the value.
func (p *Promise[T]) Complete(value T, err error) {
	if err != nil {
		p.Failure(err)
	} else {
		p.Success(value)
	}
}

// fulfill stores the result, broadcasts completion and fires the registered
// callbacks. sync.Once makes repeated fulfillment a no-op; the mutex is held
// while closing the channel so callback registration cannot race settlement.
func (p *Promise[T]) fulfill(value T, err error) {
	p.future.once.Do(func() {
		fut := p.future

		fut.mu.Lock()

		fut.value = value
		fut.err = err
		fut.completed.Store(true)

		close(fut.resultReady)

		successCallbacks := fut.successCallbacks
		errorCallbacks := fut.errorCallbacks
		completeCallbacks := fut.completeCallbacks

		// Callbacks fire at most once; dropping the slices also lets the
		// GC reclaim whatever the closures captured.
		fut.successCallbacks = nil
		fut.errorCallbacks = nil
		fut.completeCallbacks = nil

		fut.mu.Unlock()

		for _, callback := range completeCallbacks {
			invokeCompleteCallback("OnComplete", callback, value, err)
		}

		if err == nil {
			for _, callback := range successCallbacks {
				invokeCallback("OnSuccess", callback, value)
			}
		} else {
			for _, callback := range errorCallbacks {
				invokeCallback("OnError", callback, err)
			}
		}
	})
}
