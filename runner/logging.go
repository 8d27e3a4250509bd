package runner

import (
	"context"
	"log/slog"
	"time"
)

// Observer provides notification hooks for runner activity. Implementations
// must not block for long: hooks are invoked inline on the scheduler's
// goroutine (dispatch hooks on the dispatcher's goroutine). Observers cannot
// influence transitions.
type Observer[S comparable, A comparable] interface {
	RunnerStarted(ctx context.Context, state S)
	RunnerStopped(ctx context.Context, state S, err error)
	ActionDispatched(ctx context.Context, kind A)
	ActionDiscarded(ctx context.Context, state S, kind A)
	TransitionApplied(ctx context.Context, from, to S, kind A, elapsed time.Duration)
}

// nopObserver is the default when no observer is configured.
type nopObserver[S comparable, A comparable] struct{}

func (nopObserver[S, A]) RunnerStarted(context.Context, S)         {}
func (nopObserver[S, A]) RunnerStopped(context.Context, S, error)  {}
func (nopObserver[S, A]) ActionDispatched(context.Context, A)      {}
func (nopObserver[S, A]) ActionDiscarded(context.Context, S, A)    {}
func (nopObserver[S, A]) TransitionApplied(context.Context, S, S, A, time.Duration) {
}

// SlogObserver implements Observer using slog.
type SlogObserver[S comparable, A comparable] struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer that logs runner activity through the
// given logger. A nil logger falls back to slog.Default().
func NewSlogObserver[S comparable, A comparable](logger *slog.Logger) *SlogObserver[S, A] {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogObserver[S, A]{logger: logger}
}

func (o *SlogObserver[S, A]) RunnerStarted(ctx context.Context, state S) {
	o.logger.InfoContext(ctx, "runner started", "state", state)
}

func (o *SlogObserver[S, A]) RunnerStopped(ctx context.Context, state S, err error) {
	if err != nil {
		o.logger.ErrorContext(ctx, "runner stopped on handler failure",
			"state", state,
			"error", err,
		)

		return
	}

	o.logger.InfoContext(ctx, "runner stopped", "state", state)
}

func (o *SlogObserver[S, A]) ActionDispatched(ctx context.Context, kind A) {
	o.logger.DebugContext(ctx, "action dispatched", "action", kind)
}

func (o *SlogObserver[S, A]) ActionDiscarded(ctx context.Context, state S, kind A) {
	o.logger.DebugContext(ctx, "action discarded, no handler registered",
		"state", state,
		"action", kind,
	)
}

func (o *SlogObserver[S, A]) TransitionApplied(ctx context.Context, from, to S, kind A, elapsed time.Duration) {
	o.logger.InfoContext(ctx, "transition applied",
		"from", from,
		"to", to,
		"action", kind,
		"duration_ms", elapsed.Milliseconds(),
	)
}
