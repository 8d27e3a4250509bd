package future

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrCallbackPanic wraps a panic recovered from a user-provided callback
// or from a function passed to Go.
var ErrCallbackPanic = errors.New("panic recovered")

// recoveredError converts a recovered panic value into an error, preserving
// the original error when the panic value is one.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrCallbackPanic, err)
	}

	return fmt.Errorf("%w: %v", ErrCallbackPanic, r)
}

// invokeCallback runs a callback in its own goroutine with panic recovery.
// A nil callback is ignored. Panics are logged with a stack trace rather
// than crashing the process; a callback must never take the future down
// with it.
func invokeCallback[T any](kind string, callback func(T), value T) {
	if callback == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in future."+kind+" callback",
					"error", recoveredError(r),
					"stack", string(debug.Stack()))
			}
		}()

		callback(value)
	}()
}

// invokeCompleteCallback is invokeCallback for the two-argument completion
// callbacks registered via OnComplete.
func invokeCompleteCallback[T any](kind string, callback func(T, error), value T, err error) {
	if callback == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in future."+kind+" callback",
					"error", recoveredError(r),
					"stack", string(debug.Stack()))
			}
		}()

		callback(value, err)
	}()
}
