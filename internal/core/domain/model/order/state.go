package order

import (
	"fmt"

	"cardorders/internal/pkg/errs"
)

// State is the position of an order in its fulfillment pipeline.
//
//	Initialized ─> Captured ─> Paid ─> Actionable ─> Reviewed ─> Creating ─> Created ─> Enroute ─> Fulfilled
//	     │            │         │          │            │           │           │          │
//	     └────────────┴─────────┴──────────┴────────────┴───────────┴───────────┴──────────┴──> Canceled
//
// Which of the edges above are legal is decided by a TransitionPolicy; State
// itself only knows its name, its rank in the pipeline and whether it is terminal.
type State int

const (
	// Unknown is the zero value and never a valid persisted state.
	Unknown State = iota
	Initialized
	Captured
	Paid
	Actionable
	Reviewed
	Creating
	Created
	Enroute
	Fulfilled
	Canceled
)

var stateNames = map[State]string{
	Initialized: "Initialized",
	Captured:    "Captured",
	Paid:        "Paid",
	Actionable:  "Actionable",
	Reviewed:    "Reviewed",
	Creating:    "Creating",
	Created:     "Created",
	Enroute:     "Enroute",
	Fulfilled:   "Fulfilled",
	Canceled:    "Canceled",
}

// States returns every valid state in pipeline order, Canceled last.
func States() []State {
	return []State{Initialized, Captured, Paid, Actionable, Reviewed, Creating, Created, Enroute, Fulfilled, Canceled}
}

// ParseState converts the persisted name of a state back into a State.
func ParseState(s string) (State, error) {
	for state, name := range stateNames {
		if name == s {
			return state, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid state", s))
}

// String returns the persisted name of the state, or "Unknown".
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Validate rejects Unknown and values outside the enumeration.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// IsTerminal reports whether no transition may ever leave the state.
func (s State) IsTerminal() bool {
	return s == Fulfilled || s == Canceled
}

// IsInitial reports whether intake may create an order in this state.
// Orders paid up front enter the pipeline directly at Captured.
func (s State) IsInitial() bool {
	return s == Initialized || s == Captured
}

// rank orders states along the pipeline. Canceled is a sink ranked after
// everything so that cancellation is never a backward edge.
func (s State) rank() int {
	return int(s)
}
