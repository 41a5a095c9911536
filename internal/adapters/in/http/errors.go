package http

import (
	"errors"
	"net/http"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"
)

// Identifiers for failures that have no domain sentinel.
const (
	errInvalidInput   = "invalid-input"
	errNotFound       = "not-found"
	errNotImplemented = "not-implemented"
	errInternal       = "internal"
)

// statusFor maps an application error onto an HTTP status and a stable identifier.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, commands.ErrNoUserSpecified):
		return http.StatusUnauthorized, commands.ErrNoUserSpecified.Error()
	case errors.Is(err, commands.ErrNoOrdersFound):
		return http.StatusNotFound, commands.ErrNoOrdersFound.Error()
	case errors.Is(err, commands.ErrNoMatchingOrder):
		return http.StatusNotFound, commands.ErrNoMatchingOrder.Error()
	case errors.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict, order.ErrInvalidTransition.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, errNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, kernel.ErrIDIsNotConstructed):
		return http.StatusBadRequest, errInvalidInput
	default:
		return http.StatusInternalServerError, errInternal
	}
}
