package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned for orders not created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

const maxQuantity = 100000

// Order is the aggregate root for a customer's request to print and ship cards.
//
// Invariants:
//   - state changes only through Transition, which requires a TransitionPolicy
//   - every accepted transition produces exactly one Event
//   - all other fields may change independently of the state
//   - version identifies the persisted revision; the first mutation after a
//     load bumps it once so repositories can write conditionally
type Order struct {
	id            kernel.ID
	userID        kernel.ID
	cardVersionID kernel.ID

	state    State
	quantity int
	price    Price

	shippingAddress  string
	shippingName     string
	trackingNumber   string
	shippingLabelURL string
	printSpecURL     string

	createdAt time.Time
	updatedAt time.Time

	version int64
	dirty   bool

	isConstructed bool
}

// NewOrder creates an order at intake. The initial state must be Initialized
// or Captured; the returned event records the entry into that state.
//
// Example:
//
//	o, created, err := order.NewOrder(
//	    kernel.NewID(kernel.OrderPrefix), userID, cardVersionID,
//	    250, price, order.Initialized, order.InternalTrigger, time.Now(),
//	)
func NewOrder(
	id, userID, cardVersionID kernel.ID,
	quantity int,
	price Price,
	initial State,
	trigger Trigger,
	at time.Time,
) (*Order, *Event, error) {
	o := &Order{
		price:         price,
		createdAt:     at.UTC(),
		updatedAt:     at.UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(id, userID, cardVersionID),
		o.setQuantity(quantity),
		o.setInitialState(initial),
	); err != nil {
		return nil, nil, err
	}

	event, err := NewEvent(o.id, trigger, o.state, o.createdAt)
	if err != nil {
		return nil, nil, err
	}

	return o, event, nil
}

// Snapshot is the flat persisted form of an Order used by repositories.
type Snapshot struct {
	ID               string
	UserID           string
	CardVersionID    string
	State            State
	Quantity         int
	Subtotal         int64
	Tax              int64
	Shipping         int64
	Discount         int64
	Total            int64
	ShippingAddress  string
	ShippingName     string
	TrackingNumber   string
	ShippingLabelURL string
	PrintSpecURL     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// RestoreOrder rebuilds an order loaded from storage. Unlike NewOrder it
// accepts any valid state.
func RestoreOrder(s Snapshot) (*Order, error) {
	id, err := kernel.ParseID(kernel.OrderPrefix, s.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.ParseID(kernel.UserPrefix, s.UserID)
	if err != nil {
		return nil, err
	}
	cardVersionID, err := kernel.ParseID(kernel.CardVersionPrefix, s.CardVersionID)
	if err != nil {
		return nil, err
	}
	price, err := NewPrice(s.Subtotal, s.Tax, s.Shipping, s.Discount, s.Total)
	if err != nil {
		return nil, err
	}
	if err = s.State.Validate(); err != nil {
		return nil, err
	}
	if s.Version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order", fmt.Errorf("version %d is below 1", s.Version))
	}

	o := &Order{
		state:            s.State,
		price:            price,
		shippingAddress:  s.ShippingAddress,
		shippingName:     s.ShippingName,
		trackingNumber:   s.TrackingNumber,
		shippingLabelURL: s.ShippingLabelURL,
		printSpecURL:     s.PrintSpecURL,
		createdAt:        s.CreatedAt.UTC(),
		updatedAt:        s.UpdatedAt.UTC(),
		version:          s.Version,
		isConstructed:    true,
	}
	if err = errors.Join(o.setIDs(id, userID, cardVersionID), o.setQuantity(s.Quantity)); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot returns the flat persisted form of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:               o.id.String(),
		UserID:           o.userID.String(),
		CardVersionID:    o.cardVersionID.String(),
		State:            o.state,
		Quantity:         o.quantity,
		Subtotal:         o.price.Subtotal(),
		Tax:              o.price.Tax(),
		Shipping:         o.price.Shipping(),
		Discount:         o.price.Discount(),
		Total:            o.price.Total(),
		ShippingAddress:  o.shippingAddress,
		ShippingName:     o.shippingName,
		TrackingNumber:   o.trackingNumber,
		ShippingLabelURL: o.shippingLabelURL,
		PrintSpecURL:     o.printSpecURL,
		CreatedAt:        o.createdAt,
		UpdatedAt:        o.updatedAt,
		Version:          o.version,
	}
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.ID            { return o.id }
func (o *Order) UserID() kernel.ID        { return o.userID }
func (o *Order) CardVersionID() kernel.ID { return o.cardVersionID }
func (o *Order) State() State             { return o.state }
func (o *Order) Quantity() int            { return o.quantity }
func (o *Order) Price() Price             { return o.price }
func (o *Order) ShippingAddress() string  { return o.shippingAddress }
func (o *Order) ShippingName() string     { return o.shippingName }
func (o *Order) TrackingNumber() string   { return o.trackingNumber }
func (o *Order) ShippingLabelURL() string { return o.shippingLabelURL }
func (o *Order) PrintSpecURL() string     { return o.printSpecURL }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }
func (o *Order) UpdatedAt() time.Time     { return o.updatedAt }

// Version is the revision this order will have once its pending changes are persisted.
func (o *Order) Version() int64 { return o.version }

// PersistedVersion is the revision the order had when it was loaded. Repositories
// make their writes conditional on it.
func (o *Order) PersistedVersion() int64 {
	if o.dirty {
		return o.version - 1
	}
	return o.version
}

// MarkPersisted records that the pending changes were committed, so the
// current version becomes the one later writes are conditional on.
func (o *Order) MarkPersisted() {
	o.dirty = false
}

// IsOwnedBy reports whether the order belongs to the given user.
func (o *Order) IsOwnedBy(userID kernel.ID) bool {
	return o.userID.IsEqual(userID)
}

// Transition moves the order to futureState if the policy has a matching
// edge and returns the event recording it. On denial the order is left
// untouched and the error wraps ErrInvalidTransition.
func (o *Order) Transition(policy TransitionPolicy, futureState State, trigger Trigger, at time.Time) (*Event, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := trigger.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Check(o.state, futureState, trigger); err != nil {
		return nil, err
	}

	event, err := NewEvent(o.id, trigger, futureState, at)
	if err != nil {
		return nil, err
	}

	o.state = futureState
	o.touch(at)
	return event, nil
}

// CheckoutDetails is the side payload settled by the payment webhook. A blank
// shipping address or name leaves the order's current value in place.
type CheckoutDetails struct {
	Tax             int64
	Shipping        int64
	Total           int64
	ShippingAddress string
	ShippingName    string
}

// Validate checks the payload without touching any order.
func (d CheckoutDetails) Validate() error {
	return errors.Join(
		nonNegative("tax", d.Tax),
		nonNegative("shipping", d.Shipping),
		nonNegative("total", d.Total),
	)
}

// ApplyCheckout merges the checkout payload into the price and shipping fields.
func (o *Order) ApplyCheckout(d CheckoutDetails, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	price, err := o.price.withCheckout(d.Tax, d.Shipping, d.Total)
	if err != nil {
		return err
	}

	o.price = price
	if address := strings.TrimSpace(d.ShippingAddress); address != "" {
		o.shippingAddress = address
	}
	if name := strings.TrimSpace(d.ShippingName); name != "" {
		o.shippingName = name
	}
	o.touch(at)
	return nil
}

// FulfillmentUpdate carries production and shipping artifacts. Nil fields are left unchanged.
type FulfillmentUpdate struct {
	TrackingNumber   *string
	ShippingLabelURL *string
	PrintSpecURL     *string
}

// IsEmpty reports whether the update would change nothing.
func (u FulfillmentUpdate) IsEmpty() bool {
	return u.TrackingNumber == nil && u.ShippingLabelURL == nil && u.PrintSpecURL == nil
}

// UpdateFulfillment records tracking and production artifacts. It never changes the state.
func (o *Order) UpdateFulfillment(u FulfillmentUpdate, at time.Time) error {
	if u.IsEmpty() {
		return errs.NewValueIsRequiredError("fulfillment update")
	}
	if u.TrackingNumber != nil {
		o.trackingNumber = strings.TrimSpace(*u.TrackingNumber)
	}
	if u.ShippingLabelURL != nil {
		o.shippingLabelURL = strings.TrimSpace(*u.ShippingLabelURL)
	}
	if u.PrintSpecURL != nil {
		o.printSpecURL = strings.TrimSpace(*u.PrintSpecURL)
	}
	o.touch(at)
	return nil
}

func (o *Order) touch(at time.Time) {
	o.updatedAt = at.UTC()
	if !o.dirty {
		o.version++
		o.dirty = true
	}
}

func (o *Order) setIDs(id, userID, cardVersionID kernel.ID) error {
	if err := errors.Join(
		id.ValidatePrefix(kernel.OrderPrefix),
		userID.ValidatePrefix(kernel.UserPrefix),
		cardVersionID.ValidatePrefix(kernel.CardVersionPrefix),
	); err != nil {
		return err
	}
	o.id = id
	o.userID = userID
	o.cardVersionID = cardVersionID
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if quantity < 1 || quantity > maxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxQuantity)
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setInitialState(state State) error {
	if !state.IsInitial() {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%s is not an initial state", state))
	}
	o.state = state
	return nil
}
