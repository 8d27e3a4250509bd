package runner

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Prometheus metrics for monitoring runner behavior. All metrics carry the
// "runner" label so multiple machines in one process stay distinguishable.
var (
	// dispatchedActions counts actions appended to the queue.
	dispatchedActions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_actions_dispatched_total",
		Help: "The total number of actions dispatched to the runner's queue",
	}, []string{"runner"})

	// processedActions counts actions whose handler completed successfully.
	processedActions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_actions_processed_total",
		Help: "The total number of actions processed by a transition handler",
	}, []string{"runner"})

	// discardedActions counts actions dropped because the current state has
	// no handler registered for their kind.
	discardedActions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_actions_discarded_total",
		Help: "The total number of actions discarded with no handler registered",
	}, []string{"runner"})

	// transitions counts committed state transitions by from/to state.
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_transitions_total",
		Help: "The total number of committed state transitions",
	}, []string{"runner", "from_state", "to_state"})

	// handlerPanics counts panics recovered from transition handlers.
	handlerPanics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_handler_panics_total",
		Help: "The total number of panics recovered from transition handlers",
	}, []string{"runner"})

	// handlerDuration measures time spent inside transition handlers.
	handlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "fsm_handler_duration_seconds",
		Help:    "Duration of transition handler execution by outcome",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"runner", "outcome"})

	// queueDepth tracks the number of actions currently buffered.
	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "fsm_queue_depth",
		Help: "The number of actions currently buffered in the runner's queue",
	}, []string{"runner"})

	// runnerUp is 1 while the runner is draining and 0 while stopped.
	runnerUp = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "fsm_runner_up",
		Help: "Whether the runner is currently started (1) or stopped (0)",
	}, []string{"runner"})
)

// valueLabel renders an opaque state or action kind value as a metric label
// or span attribute. Types with a String method get their own rendering.
func valueLabel(v any) string {
	return fmt.Sprintf("%v", v)
}
