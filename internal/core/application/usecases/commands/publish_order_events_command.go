package commands

import (
	"errors"

	"cardorders/internal/pkg/errs"
	"cardorders/internal/pkg/guard"
)

var ErrPublishOrderEventsCommandIsNotConstructed = errors.New(
	"PublishOrderEventsCommand must be created via NewPublishOrderEventsCommand constructor",
)

const maxPublishBatchSize = 1000

// PublishOrderEventsCommand relays up to BatchSize unpublished ledger entries to the broker.
type PublishOrderEventsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewPublishOrderEventsCommand accepts batch sizes between 1 and 1000.
func NewPublishOrderEventsCommand(batchSize int) (PublishOrderEventsCommand, error) {
	if batchSize < 1 || batchSize > maxPublishBatchSize {
		return PublishOrderEventsCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, maxPublishBatchSize)
	}

	return PublishOrderEventsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PublishOrderEventsCommand) Validate() error {
	return c.guard.Validate(ErrPublishOrderEventsCommandIsNotConstructed)
}

func (c PublishOrderEventsCommand) BatchSize() int { return c.batchSize }
