package kernel

import (
	"fmt"
	"strings"

	"cardorders/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrIDIsNotConstructed is returned when validating a zero-value ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID or ParseID")

const separator = "_"

// Prefix names the kind of entity an ID identifies. It is rendered in front of
// the random part so identifiers are self-describing in logs and storage.
type Prefix string

const (
	OrderPrefix       Prefix = "ord"
	OrderEventPrefix  Prefix = "evt"
	UserPrefix        Prefix = "usr"
	CardVersionPrefix Prefix = "cv"
)

// ID is an opaque, prefixed identifier such as "ord_550e8400-e29b-41d4-a716-446655440000".
//
// The zero value is invalid; build IDs with NewID or ParseID. ID is an
// immutable value and safe for concurrent use.
type ID struct {
	prefix Prefix
	id     uuid.UUID
}

// NewID generates a random (version 4) identifier with the given prefix.
//
// Example:
//
//	orderID := kernel.NewID(kernel.OrderPrefix)
//	fmt.Println(orderID) // ord_3f0e...
func NewID(prefix Prefix) ID {
	return ID{prefix: prefix, id: uuid.New()}
}

// ParseID parses s and checks that it carries the expected prefix.
//
// Example:
//
//	id, err := kernel.ParseID(kernel.OrderPrefix, "ord_550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//	    return fmt.Errorf("invalid order id: %w", err)
//	}
func ParseID(prefix Prefix, s string) (ID, error) {
	rawPrefix, rawID, ok := strings.Cut(s, separator)
	if !ok {
		return ID{}, errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("%q has no %q prefix", s, prefix))
	}
	if Prefix(rawPrefix) != prefix {
		return ID{}, errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("%q has prefix %q, expected %q", s, rawPrefix, prefix))
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return ID{}, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("invalid UUID format: %w", err))
	}
	if id == uuid.Nil {
		return ID{}, ErrIDIsNotConstructed
	}

	return ID{prefix: prefix, id: id}, nil
}

// MustParseID is ParseID for identifiers known to be valid, such as test fixtures.
func MustParseID(prefix Prefix, s string) ID {
	id, err := ParseID(prefix, s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the prefixed textual form used for storage and transport.
func (i ID) String() string {
	if i.id == uuid.Nil {
		return ""
	}
	return string(i.prefix) + separator + i.id.String()
}

// MarshalText encodes the identifier in its prefixed form.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Prefix returns the entity kind of the identifier.
func (i ID) Prefix() Prefix {
	return i.prefix
}

// IsEqual reports whether both identifiers have the same prefix and value.
func (i ID) IsEqual(other ID) bool {
	return i.prefix == other.prefix && i.id == other.id
}

// IsZero reports whether the identifier was never constructed.
func (i ID) IsZero() bool {
	return i.id == uuid.Nil
}

// Validate returns ErrIDIsNotConstructed for the zero value.
func (i ID) Validate() error {
	if i.id == uuid.Nil || i.prefix == "" {
		return ErrIDIsNotConstructed
	}
	return nil
}

// ValidatePrefix checks that the identifier is constructed and identifies the expected kind.
func (i ID) ValidatePrefix(prefix Prefix) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.prefix != prefix {
		return errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("%s is not a %q identifier", i, prefix))
	}
	return nil
}
