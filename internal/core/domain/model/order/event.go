package order

import (
	"errors"
	"fmt"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/pkg/errs"
)

// ErrEventIsNotConstructed is returned for events not created through NewEvent or RestoreEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent constructor")

// Event is one immutable ledger entry: the order entered State because of Trigger.
type Event struct {
	id          kernel.ID
	orderID     kernel.ID
	trigger     Trigger
	state       State
	createdAt   time.Time
	publishedAt *time.Time

	isConstructed bool
}

// NewEvent records an accepted transition of the given order.
func NewEvent(orderID kernel.ID, trigger Trigger, state State, at time.Time) (*Event, error) {
	if err := errors.Join(
		orderID.ValidatePrefix(kernel.OrderPrefix),
		trigger.Validate(),
		state.Validate(),
	); err != nil {
		return nil, err
	}

	return &Event{
		id:            kernel.NewID(kernel.OrderEventPrefix),
		orderID:       orderID,
		trigger:       trigger,
		state:         state,
		createdAt:     at.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreEvent rebuilds an event loaded from storage.
func RestoreEvent(id, orderID string, trigger Trigger, state State, createdAt time.Time, publishedAt *time.Time) (*Event, error) {
	eventID, err := kernel.ParseID(kernel.OrderEventPrefix, id)
	if err != nil {
		return nil, err
	}
	parsedOrderID, err := kernel.ParseID(kernel.OrderPrefix, orderID)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(trigger.Validate(), state.Validate()); err != nil {
		return nil, err
	}

	var published *time.Time
	if publishedAt != nil {
		at := publishedAt.UTC()
		published = &at
	}

	return &Event{
		id:            eventID,
		orderID:       parsedOrderID,
		trigger:       trigger,
		state:         state,
		createdAt:     createdAt.UTC(),
		publishedAt:   published,
		isConstructed: true,
	}, nil
}

// Validate ensures the event was built by a constructor.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

func (e *Event) ID() kernel.ID        { return e.id }
func (e *Event) OrderID() kernel.ID   { return e.orderID }
func (e *Event) Trigger() Trigger     { return e.trigger }
func (e *Event) State() State         { return e.state }
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// PublishedAt is set once the outbox relay has handed the event to the broker.
func (e *Event) PublishedAt() *time.Time { return e.publishedAt }

// IsPublished reports whether the relay already published the event.
func (e *Event) IsPublished() bool { return e.publishedAt != nil }

// ReplayState folds an order's events, oldest first, into the state they
// imply. The first event must enter an initial state and the events must
// belong to one order in chronological order. Edges are not checked against
// a policy, so a history written under an earlier policy still replays; use
// AuditHistory for that.
func ReplayState(events []*Event) (State, error) {
	if len(events) == 0 {
		return Unknown, errs.NewValueIsRequiredError("events")
	}

	first := events[0]
	if err := first.Validate(); err != nil {
		return Unknown, err
	}
	if !first.State().IsInitial() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("events",
			fmt.Errorf("history starts at %s, not an initial state", first.State()))
	}

	for i, event := range events[1:] {
		if err := event.Validate(); err != nil {
			return Unknown, err
		}
		if !event.OrderID().IsEqual(first.OrderID()) {
			return Unknown, errs.NewValueIsInvalidErrorWithCause("events",
				fmt.Errorf("event %d belongs to %s, not %s", i+1, event.OrderID(), first.OrderID()))
		}
		if event.CreatedAt().Before(events[i].CreatedAt()) {
			return Unknown, errs.NewValueIsInvalidErrorWithCause("events",
				fmt.Errorf("event %d is older than its predecessor", i+1))
		}
	}

	return events[len(events)-1].State(), nil
}

// AuditHistory checks every step of a replayable history against policy and
// returns the first step the policy does not allow.
func AuditHistory(policy TransitionPolicy, events []*Event) error {
	if _, err := ReplayState(events); err != nil {
		return err
	}
	for i := 1; i < len(events); i++ {
		if err := policy.Check(events[i-1].State(), events[i].State(), events[i].Trigger()); err != nil {
			return fmt.Errorf("replaying event %d: %w", i, err)
		}
	}
	return nil
}
