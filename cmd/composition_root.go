package cmd

import (
	"log/slog"

	httpin "cardorders/internal/adapters/in/http"
	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"
	"cardorders/internal/jobs"
)

type CompositionRoot struct {
	configs    Config
	store      Store
	policy     order.TransitionPolicy
	machine    services.OrderStateMachine
	uowFactory commands.UoWFactory
	readers    queries.ReaderFactory
	metrics    ports.TransitionMetrics
	publisher  ports.OrderEventPublisher
}

// NewCompositionRoot wires the use cases onto store. metrics and publisher may be nil.
func NewCompositionRoot(
	configs Config,
	store Store,
	metrics ports.TransitionMetrics,
	publisher ports.OrderEventPublisher,
) (CompositionRoot, error) {
	policy, err := configs.TransitionPolicy()
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		configs: configs,
		store:   store,
		policy:  policy,
		machine: services.NewOrderStateMachine(policy),
		uowFactory: FuncUoWFactory(func() commands.UoW {
			return store.UoWFactory.Create()
		}),
		readers: FuncReaderFactory(func() queries.Reader {
			return store.UoWFactory.Create()
		}),
		metrics:   metrics,
		publisher: publisher,
	}, nil
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.uowFactory, c.machine, c.metrics)
}

func (c *CompositionRoot) CreateBatchTransitionOrdersCommandHandler() commands.BatchTransitionOrdersCommandHandler {
	return commands.NewBatchTransitionOrdersCommandHandler(c.uowFactory, c.machine, c.metrics)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uowFactory, c.machine, c.metrics)
}

func (c *CompositionRoot) CreateCompleteCheckoutCommandHandler() commands.CompleteCheckoutCommandHandler {
	return commands.NewCompleteCheckoutCommandHandler(c.uowFactory, c.machine, c.metrics)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uowFactory, c.machine)
}

func (c *CompositionRoot) CreateUpdateFulfillmentCommandHandler() commands.UpdateFulfillmentCommandHandler {
	return commands.NewUpdateFulfillmentCommandHandler(c.uowFactory, c.machine)
}

func (c *CompositionRoot) CreatePublishOrderEventsCommandHandler() commands.PublishOrderEventsCommandHandler {
	return commands.NewPublishOrderEventsCommandHandler(c.uowFactory, c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.readers)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.readers, c.policy)
}

// CreateGetOpenOrdersQueryHandler reports false when the store cannot list orders.
func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() (queries.GetOpenOrdersQueryHandler, bool) {
	if c.store.DB == nil {
		return queries.GetOpenOrdersQueryHandler{}, false
	}
	return queries.NewGetOpenOrdersQueryHandler(c.store.DB), true
}

// HTTPHandlers collects the use cases served by the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	handlers := httpin.Handlers{
		Transition:      c.CreateTransitionOrderCommandHandler(),
		BatchTransition: c.CreateBatchTransitionOrdersCommandHandler(),
		Cancel:          c.CreateCancelOrderCommandHandler(),
		Checkout:        c.CreateCompleteCheckoutCommandHandler(),
		Create:          c.CreateCreateOrderCommandHandler(),
		Fulfillment:     c.CreateUpdateFulfillmentCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		History:         c.CreateGetOrderHistoryQueryHandler(),
	}
	if openOrders, ok := c.CreateGetOpenOrdersQueryHandler(); ok {
		handlers.OpenOrders = openOrders
	}
	return handlers
}

// CreateJobManager returns the scheduled jobs. The relay is only scheduled
// when a publisher is configured.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) (*jobs.JobManager, error) {
	jobManager := jobs.NewJobManager()
	if c.publisher == nil {
		logger.Warn("No event publisher configured, order event relay disabled")
		return jobManager, nil
	}

	relay, err := jobs.NewOrderEventRelayJob(
		c.CreatePublishOrderEventsCommandHandler(),
		c.configs.EventRelaySchedule,
		c.configs.EventRelayBatchSize,
		logger,
	)
	if err != nil {
		return nil, err
	}
	jobManager.Add("order event relay", relay)
	return jobManager, nil
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncReaderFactory func() queries.Reader

func (f FuncReaderFactory) Create() queries.Reader {
	return f()
}
