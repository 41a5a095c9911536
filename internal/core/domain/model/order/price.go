package order

import (
	"errors"
	"math"

	"cardorders/internal/pkg/errs"
)

// Price is the monetary breakdown of an order in minor currency units.
//
// Total is supplied by the caller (pricing lives outside this module) and is
// expected to equal Subtotal + Tax + Shipping - Discount; it is stored as given.
type Price struct {
	subtotal int64
	tax      int64
	shipping int64
	discount int64
	total    int64
}

// NewPrice validates that every component is non-negative.
func NewPrice(subtotal, tax, shipping, discount, total int64) (Price, error) {
	if err := errors.Join(
		nonNegative("subtotal", subtotal),
		nonNegative("tax", tax),
		nonNegative("shipping", shipping),
		nonNegative("discount", discount),
		nonNegative("total", total),
	); err != nil {
		return Price{}, err
	}

	return Price{
		subtotal: subtotal,
		tax:      tax,
		shipping: shipping,
		discount: discount,
		total:    total,
	}, nil
}

func (p Price) Subtotal() int64 { return p.subtotal }
func (p Price) Tax() int64      { return p.tax }
func (p Price) Shipping() int64 { return p.shipping }
func (p Price) Discount() int64 { return p.discount }
func (p Price) Total() int64    { return p.total }

// withCheckout returns a copy carrying the tax, shipping and total settled at checkout.
func (p Price) withCheckout(tax, shipping, total int64) (Price, error) {
	return NewPrice(p.subtotal, tax, shipping, p.discount, total)
}

func nonNegative(name string, v int64) error {
	if v < 0 {
		return errs.NewValueIsOutOfRangeError(name, v, 0, int64(math.MaxInt64))
	}
	return nil
}
