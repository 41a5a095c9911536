package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"cardorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderID", "ord_123")

		assert.Equal(t, "orderID", err.ParamName)
		assert.Equal(t, "ord_123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: ord_123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("orderID", "ord_123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderID, ID is: ord_123 (cause: connection reset)",
			err.Error())
	})

	t.Run("non string identifiers are rendered", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("seq", 42)
		assert.Equal(t, "object not found: 42", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("orderIDs")

		assert.Equal(t, "value is invalid: orderIDs", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("state", errors.New("Shipped is not a state"))

		assert.Equal(t, "value is invalid: state (cause: Shipped is not a state)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100000)

		assert.Equal(t, 0, err.Value)
		assert.Equal(t, "value is out of range: quantity is 0, min value is 1, max value is 100000", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("tax", -5, 0, "unbounded", errors.New("negative"))

		assert.Equal(t,
			"value is out of range: tax is -5, min value is 0, max value is unbounded (cause: negative)",
			err.Error())
	})

	t.Run("newlines in values are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("name", "line\nbreak", 0, 10)
		assert.Contains(t, err.Error(), "line break")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("userID")
	assert.Equal(t, "value is required: userID", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("userID", errors.New("empty header"))
	assert.Equal(t, "value is required: userID (cause: empty header)", withCause.Error())
	assert.Equal(t, errs.ErrValueIsRequired, withCause.Unwrap())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("order")
	assert.Equal(t, "version is invalid: order", err.Error())

	withCause := errs.NewVersionIsInvalidErrorWithCause("order", errors.New("0 rows affected"))
	assert.Equal(t, "version is invalid: order (cause: 0 rows affected)", withCause.Error())
	assert.Equal(t, errs.ErrVersionIsInvalid, withCause.Unwrap())
}

func TestErrorsCanBeMatchedThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update order: %w", errs.NewVersionIsInvalidError("order"))
	require.ErrorIs(t, wrapped, errs.ErrVersionIsInvalid)

	var target *errs.VersionIsInvalidError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "order", target.ParamName)

	require.ErrorIs(t, errs.NewObjectNotFoundError("orderID", "x"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsRequiredError("x"), errs.ErrValueIsRequired)
	require.NotErrorIs(t, errs.NewValueIsRequiredError("x"), errs.ErrValueIsInvalid)
}
