package order

import (
	"fmt"

	"cardorders/internal/pkg/errs"
)

// Trigger identifies the actor that caused a transition. It is recorded on
// every OrderEvent and may be required by a policy edge.
type Trigger int

const (
	// NoTrigger means the caller did not tag the transition.
	NoTrigger Trigger = iota
	// UserTrigger marks an action of the end user who owns the order.
	UserTrigger
	// PaymentTrigger marks the payment webhook.
	PaymentTrigger
	// InternalTrigger marks back-office and admin tooling.
	InternalTrigger
)

// AnyTrigger is only meaningful on a policy Edge: the edge accepts every trigger.
const AnyTrigger Trigger = -1

var triggerNames = map[Trigger]string{
	NoTrigger:       "",
	UserTrigger:     "User",
	PaymentTrigger:  "Payment",
	InternalTrigger: "Internal",
}

// ParseTrigger converts a persisted trigger name back into a Trigger. The
// empty string yields NoTrigger.
func ParseTrigger(s string) (Trigger, error) {
	for trigger, name := range triggerNames {
		if name == s {
			return trigger, nil
		}
	}
	return NoTrigger, errs.NewValueIsInvalidErrorWithCause("trigger", fmt.Errorf("%q is not a valid trigger", s))
}

func (t Trigger) String() string {
	if t == AnyTrigger {
		return "*"
	}
	return triggerNames[t]
}

// MarshalText encodes the trigger by name.
func (t Trigger) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Validate accepts the triggers that may be recorded on an event. AnyTrigger is rejected.
func (t Trigger) Validate() error {
	if _, ok := triggerNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("trigger", fmt.Errorf("%d is not a valid trigger", t))
	}
	return nil
}
