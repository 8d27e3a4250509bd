package runner

import (
	"errors"
	"fmt"
)

// ErrHandlerPanic wraps a panic recovered from a transition handler.
var ErrHandlerPanic = errors.New("panic in transition handler")

// HandlerError wraps a transition handler failure with the state and action
// kind that triggered it. State and Kind are rendered with %v so the error
// is useful regardless of the caller's state and action types.
type HandlerError struct {
	State string
	Kind  string
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for (%s, %s): %v", e.State, e.Kind, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// wrapHandlerError attaches (state, kind) context to a handler failure.
func wrapHandlerError(state, kind any, err error) error {
	if err == nil {
		return nil
	}

	return &HandlerError{
		State: valueLabel(state),
		Kind:  valueLabel(kind),
		Err:   err,
	}
}

// panicError converts a recovered panic value into an error, preserving the
// original error when the panic value is one.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("%w: %w", ErrHandlerPanic, err)
	}

	return fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
}
