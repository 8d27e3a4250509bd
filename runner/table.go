package runner

import "context"

// Handler is the transition logic for one (state, action kind) pair. It
// receives the payload carried by the dispatched action and returns the next
// state. Handlers may block (network calls, I/O); the runner waits for the
// result before touching the next queued action. The context is the runner's
// base context and is not canceled by Stop: an in-flight handler always runs
// to completion.
type Handler[S comparable] func(ctx context.Context, payload any) (S, error)

// Actions maps the action kinds a state responds to onto their handlers.
// Kinds absent from the map are silently discarded while that state is
// current; an unhandled action is a no-op, not an error.
type Actions[S comparable, A comparable] map[A]Handler[S]

// Table is the complete transition table: every state the machine can occupy,
// mapped onto the (possibly partial) set of actions it responds to. The
// runner copies the table at construction time, so the caller's map can be
// reused or mutated afterwards without affecting a running machine.
type Table[S comparable, A comparable] map[S]Actions[S, A]

// clone deep-copies the two-level table so the runner owns an immutable view.
func (t Table[S, A]) clone() Table[S, A] {
	copied := make(Table[S, A], len(t))

	for state, actions := range t {
		inner := make(Actions[S, A], len(actions))

		for kind, handler := range actions {
			inner[kind] = handler
		}

		copied[state] = inner
	}

	return copied
}
