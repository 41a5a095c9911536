package jobs

import (
	"context"
	"log/slog"

	"cardorders/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRelaySchedule runs the relay every five seconds.
const DefaultRelaySchedule = "*/5 * * * * *"

// EventRelayHandler relays one batch of unpublished order events.
type EventRelayHandler interface {
	Handle(ctx context.Context, cmd commands.PublishOrderEventsCommand) (int, error)
}

// OrderEventRelayJob periodically hands unpublished ledger entries to the broker.
type OrderEventRelayJob struct {
	handler  EventRelayHandler
	schedule string
	cmd      commands.PublishOrderEventsCommand
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderEventRelayJob creates the relay job. schedule is a six-field cron
// expression (with seconds); an empty schedule means DefaultRelaySchedule.
func NewOrderEventRelayJob(
	handler EventRelayHandler,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) (*OrderEventRelayJob, error) {
	cmd, err := commands.NewPublishOrderEventsCommand(batchSize)
	if err != nil {
		return nil, err
	}
	if schedule == "" {
		schedule = DefaultRelaySchedule
	}

	return &OrderEventRelayJob{
		handler:  handler,
		schedule: schedule,
		cmd:      cmd,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "order_event_relay_job"),
	}, nil
}

// Start schedules the relay.
func (j *OrderEventRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order event relay job started", "schedule", j.schedule)
	return nil
}

// RunOnce relays a single batch and returns the number of events published.
func (j *OrderEventRelayJob) RunOnce(ctx context.Context) int {
	published, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Order event relay failed", "error", err)
		return 0
	}
	if published > 0 {
		j.logger.DebugContext(ctx, "Order events relayed", "count", published)
	}
	return published
}

// Stop stops scheduling and waits for a running relay to finish.
func (j *OrderEventRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order event relay job stopped")
}
