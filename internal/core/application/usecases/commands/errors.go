package commands

import (
	"errors"
	"fmt"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/ports"
	"cardorders/internal/pkg/errs"
)

// Stable identifiers returned to callers. Their messages are part of the
// contract with the transport adapters.
var (
	ErrNoMatchingOrder = errors.New("no-matching-order")
	ErrNoOrdersFound   = errors.New("no-orders-found")
	ErrNoUserSpecified = errors.New("no-user-specified")
)

// ErrPaymentTriggerReserved rejects the Payment trigger outside the checkout webhook.
var ErrPaymentTriggerReserved = errors.New("payment trigger is reserved for checkout")

// validateRequestedTrigger accepts any known trigger except Payment, which only
// CompleteCheckoutCommand may carry so the ledger never records an unpaid payment.
func validateRequestedTrigger(trigger order.Trigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}
	if trigger == order.PaymentTrigger {
		return errors.Join(ErrPaymentTriggerReserved, errs.NewValueIsInvalidErrorWithCause("trigger", ErrPaymentTriggerReserved))
	}
	return nil
}

// translateStoreError maps repository outcomes onto the stable identifiers.
// The original error stays in the chain so errors.Is matches both.
func translateStoreError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notFound), errors.Is(err, order.ErrInvalidTransition):
		return err
	case errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("%w: %w", notFound, err)
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return fmt.Errorf("%w: %w", order.ErrInvalidTransition, err)
	default:
		return err
	}
}

func observe(metrics ports.TransitionMetrics, from, to order.State, trigger order.Trigger, err error) {
	if metrics == nil {
		return
	}
	metrics.ObserveTransition(from, to, trigger, err)
}
