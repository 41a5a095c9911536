package services

import (
	"time"

	"cardorders/internal/core/domain/model/order"
)

// OrderStateMachine is a domain service that validates a requested transition
// against a TransitionPolicy and applies it, together with an optional
// checkout payload, to an in-memory Order.
//
// Key responsibilities:
//   - Rejecting transitions that are not edges of the policy
//   - Validating the side payload before any mutation
//   - Producing exactly one Event per accepted transition
//
// Business rules:
//   - A denied transition leaves the order untouched and yields order.ErrInvalidTransition
//   - An invalid side payload leaves the order untouched
//   - Persisting the order and appending the event are the caller's unit of work
//
// Example usage:
//
//	machine := services.NewOrderStateMachine(order.MustDefaultTransitionPolicy())
//	event, err := machine.Transition(o, order.Paid, order.PaymentTrigger, &details)
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // The order is not in a state that may be paid
//	    return
//	}
type OrderStateMachine struct {
	policy order.TransitionPolicy
	now    func() time.Time
}

// StateMachineOption customizes an OrderStateMachine.
type StateMachineOption func(*OrderStateMachine)

// WithClock replaces the wall clock used to timestamp events.
func WithClock(now func() time.Time) StateMachineOption {
	return func(m *OrderStateMachine) {
		m.now = now
	}
}

// NewOrderStateMachine creates a state machine bound to the given policy.
//
// Parameters:
//   - policy: The table of legal edges, shared by every call
//   - opts: Optional overrides such as WithClock
//
// Returns:
//   - OrderStateMachine: A stateless value safe for concurrent use
func NewOrderStateMachine(policy order.TransitionPolicy, opts ...StateMachineOption) OrderStateMachine {
	m := OrderStateMachine{policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Policy returns the transition policy the machine enforces.
func (m OrderStateMachine) Policy() order.TransitionPolicy {
	return m.policy
}

// Now returns the current time according to the machine's clock, in UTC and
// truncated to microseconds so it survives a round trip through the stores.
func (m OrderStateMachine) Now() time.Time {
	return m.now().UTC().Truncate(time.Microsecond)
}

// Transition moves the order to futureState and merges the optional checkout details.
//
// Parameters:
//   - o: The order to transition (must be constructed)
//   - futureState: The state the caller wants the order to enter
//   - trigger: The actor causing the transition; recorded on the event
//   - details: Optional checkout payload, nil when the transition carries none
//
// Returns:
//   - *order.Event: The ledger entry to append in the same unit of work as the order update
//   - error: order.ErrInvalidTransition when the policy has no matching edge,
//     or validation errors for the order or the payload
func (m OrderStateMachine) Transition(
	o *order.Order,
	futureState order.State,
	trigger order.Trigger,
	details *order.CheckoutDetails,
) (*order.Event, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if details != nil {
		if err := details.Validate(); err != nil {
			return nil, err
		}
	}

	at := m.Now()
	event, err := o.Transition(m.policy, futureState, trigger, at)
	if err != nil {
		return nil, err
	}

	if details != nil {
		if err = o.ApplyCheckout(*details, at); err != nil {
			return nil, err
		}
	}

	return event, nil
}
