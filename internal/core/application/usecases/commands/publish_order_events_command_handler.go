package commands

import (
	"context"
	"fmt"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/ports"
)

// PublishOrderEventsCommandHandler is the outbox relay: it reads unpublished
// ledger entries, hands them to the publisher and stamps them as published
// in the same unit of work. A failed commit after a successful publish means
// the events are published again on the next run.
type PublishOrderEventsCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
	now        func() time.Time
}

// NewPublishOrderEventsCommandHandler creates the relay handler.
func NewPublishOrderEventsCommandHandler(uowFactory UoWFactory, publisher ports.OrderEventPublisher) PublishOrderEventsCommandHandler {
	return PublishOrderEventsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle returns the number of events published. Zero with a nil error means
// there was nothing to relay.
func (h PublishOrderEventsCommandHandler) Handle(ctx context.Context, cmd PublishOrderEventsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	published := 0
	err := inUnitOfWork(ctx, h.uowFactory, func(uow UoW) error {
		eventRepo := uow.OrderEventRepository()

		events, err := eventRepo.ListUnpublished(ctx, cmd.BatchSize())
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		if err = h.publisher.Publish(ctx, events); err != nil {
			return fmt.Errorf("publish order events: %w", err)
		}

		ids := make([]kernel.ID, 0, len(events))
		for _, event := range events {
			ids = append(ids, event.ID())
		}
		if err = eventRepo.MarkPublished(ctx, ids, h.now().UTC().Truncate(time.Microsecond)); err != nil {
			return err
		}

		published = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}
