package runner_test

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/fsm/runner"
)

// ConnState models a connection lifecycle.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Closed
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// ConnAction is the set of events that drive the connection lifecycle.
type ConnAction int

const (
	Connect ConnAction = iota
	Established
	Close
)

// ExampleRunner drives a connection lifecycle machine from disconnected to
// closed. Handlers are invoked one at a time, in dispatch order, and the
// stop future settles with the final state.
func ExampleRunner() {
	table := runner.Table[ConnState, ConnAction]{
		Disconnected: {
			Connect: func(_ context.Context, payload any) (ConnState, error) {
				fmt.Println("dialing", payload)

				return Connecting, nil
			},
		},
		Connecting: {
			Established: func(context.Context, any) (ConnState, error) {
				fmt.Println("connection established")

				return Connected, nil
			},
		},
		Connected: {
			Close: func(context.Context, any) (ConnState, error) {
				fmt.Println("connection closed")

				return Closed, nil
			},
		},
		Closed: {},
	}

	machine := runner.New(table, Disconnected)

	machine.Start()

	machine.Dispatch(Connect, "db.internal:5432")
	machine.Dispatch(Established, nil)
	machine.Dispatch(Close, nil)

	for machine.Current() != Closed {
		time.Sleep(time.Millisecond)
	}

	state, _ := machine.Stop().Get()
	fmt.Println("final:", state)

	// Output:
	// dialing db.internal:5432
	// connection established
	// connection closed
	// final: closed
}

// ExampleRunner_Stop shows that stopping an idle machine settles immediately
// with the current state.
func ExampleRunner_Stop() {
	table := runner.Table[ConnState, ConnAction]{
		Disconnected: {},
	}

	machine := runner.New(table, Disconnected)

	state, err := machine.Stop().Get()
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println("settled at:", state)

	// Output: settled at: disconnected
}
