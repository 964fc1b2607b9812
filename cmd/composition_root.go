package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpadapter "backoffice/internal/adapters/in/http"
	"backoffice/internal/adapters/out/channels/inapp"
	"backoffice/internal/adapters/out/channels/natsbus"
	"backoffice/internal/adapters/out/channels/rabbitmq"
	"backoffice/internal/adapters/out/channels/telegram"
	"backoffice/internal/adapters/out/channels/webhook"
	"backoffice/internal/adapters/out/kitchenfile"
	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/notificationrepo"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/adapters/out/postgres/outboxrepo"
	"backoffice/internal/adapters/out/postgres/sequencerepo"
	"backoffice/internal/core/application/dispatcher"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
	"backoffice/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// jobRunTimeout bounds one scheduled job run.
const jobRunTimeout = time.Minute

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     logrus.FieldLogger
	uowFactory *postgres.GormUnitOfWorkFactory
	kitchens   *kitchenfile.Directory
	allocator  *services.OrderNumberAllocator
	dispatcher *dispatcher.Dispatcher
	closers    []func() error
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger logrus.FieldLogger) (*CompositionRoot, error) {
	kitchens, err := kitchenfile.Load(cfg.KitchensFile, cfg.DefaultTimezone)
	if err != nil {
		return nil, err
	}
	logger.WithField("kitchens", kitchens.Len()).Info("Kitchen settings loaded")

	allocator, err := services.NewOrderNumberAllocator(
		sequencerepo.NewGormSequenceStore(gormDB, cfg.SequenceMaxAttempts), kitchens, nil,
	)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		kitchens:   kitchens,
		allocator:  allocator,
	}

	routes, err := c.routes()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.dispatcher, err = dispatcher.New(
		routes,
		deliveryrepo.NewGormDeliveryRepository(gormDB).WithClaimLease(2 * jobRunTimeout),
		outboxrepo.NewGormOutboxRepository(gormDB),
		logger,
		dispatcher.Config{Workers: cfg.DispatchWorkers, QueueSize: cfg.DispatchQueueSize},
		nil,
	)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// routes enables the in-app channel and every channel whose target is configured.
func (c *CompositionRoot) routes() ([]dispatcher.Route, error) {
	policy, err := delivery.NewRetryPolicy(c.cfg.DeliveryMaxAttempts, c.cfg.DeliveryBaseDelay, c.cfg.DeliveryMaxDelay)
	if err != nil {
		return nil, err
	}
	route := func(ch ports.Channel, types ...event.Type) dispatcher.Route {
		c.logger.WithField("channel", ch.Name()).Info("Notification channel enabled")
		return dispatcher.Route{Channel: ch, EventTypes: types, Policy: policy, Timeout: c.cfg.DeliveryAttemptTimeout}
	}

	inappChannel, err := inapp.NewChannel(notificationrepo.NewGormNotificationRepository(c.gormDB), c.kitchens, nil)
	if err != nil {
		return nil, err
	}
	routes := []dispatcher.Route{route(inappChannel)}

	if c.cfg.RabbitMQURL != "" {
		conn, dialErr := rabbitmq.Dial(c.cfg.RabbitMQURL)
		if dialErr != nil {
			return nil, dialErr
		}
		c.closers = append(c.closers, conn.Close)
		ch, chErr := rabbitmq.NewChannel(conn.Publisher())
		if chErr != nil {
			return nil, chErr
		}
		routes = append(routes, route(ch))
	}

	if c.cfg.NatsURL != "" {
		nc, connErr := natsbus.Connect(c.cfg.NatsURL)
		if connErr != nil {
			return nil, connErr
		}
		c.closers = append(c.closers, func() error { return nc.Drain() })
		ch, chErr := natsbus.NewChannel(nc)
		if chErr != nil {
			return nil, chErr
		}
		routes = append(routes, route(ch))
	}

	if c.cfg.TelegramToken != "" {
		bot, botErr := telegram.NewBot(c.cfg.TelegramToken)
		if botErr != nil {
			return nil, botErr
		}
		ch, chErr := telegram.NewChannel(bot, c.kitchens)
		if chErr != nil {
			return nil, chErr
		}
		// The kitchen chat follows the workflow; payment changes stay out of it.
		routes = append(routes, route(ch, event.OrderCreated, event.OrderStatusChanged))
	}

	if c.cfg.WebhookEnabled {
		ch, chErr := webhook.NewChannel(nil, c.kitchens)
		if chErr != nil {
			return nil, chErr
		}
		routes = append(routes, route(ch))
	}

	return routes, nil
}

// Start launches the dispatcher workers.
func (c *CompositionRoot) Start(ctx context.Context) {
	c.dispatcher.Start(ctx)
}

// Close stops the dispatcher and releases broker connections.
func (c *CompositionRoot) Close() error {
	if c.dispatcher != nil {
		c.dispatcher.Stop()
	}
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateGenerateOrderNumberCommandHandler() commands.GenerateOrderNumberCommandHandler {
	return commands.NewGenerateOrderNumberCommandHandler(c.allocator)
}

func (c *CompositionRoot) CreateSendNotificationCommandHandler() commands.SendNotificationCommandHandler {
	return commands.NewSendNotificationCommandHandler(notificationrepo.NewGormNotificationRepository(c.gormDB), nil)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.allocator, c.dispatcher, nil)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.dispatcher, nil)
}

func (c *CompositionRoot) CreateChangePaymentStatusCommandHandler() commands.ChangePaymentStatusCommandHandler {
	policy := order.NewPaymentPolicy(c.cfg.PaymentAllowFailedRetry)
	return commands.NewChangePaymentStatusCommandHandler(c.orderUoWFactory(), c.dispatcher, policy, nil)
}

func (c *CompositionRoot) CreateRetryDueDeliveriesCommandHandler() commands.RetryDueDeliveriesCommandHandler {
	return commands.NewRetryDueDeliveriesCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	return commands.NewRelayOutboxCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateGetFailedDeliveriesQueryHandler() queries.GetFailedDeliveriesQueryHandler {
	return queries.NewGetFailedDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	return jobs.NewJobManager(
		c.CreateRetryDueDeliveriesCommandHandler(),
		c.CreateRelayOutboxCommandHandler(),
		jobs.Config{
			DeliveryRetryCron: c.cfg.DeliveryRetryCron,
			OutboxRelayCron:   c.cfg.OutboxRelayCron,
			OutboxRelayGrace:  c.cfg.OutboxRelayGrace,
			RunTimeout:        jobRunTimeout,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPRouter() (*echo.Echo, error) {
	server := httpadapter.NewServer(httpadapter.Handlers{
		GenerateOrderNumber: c.CreateGenerateOrderNumberCommandHandler(),
		SendNotification:    c.CreateSendNotificationCommandHandler(),
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:   c.CreateChangeOrderStatusCommandHandler(),
		ChangePaymentStatus: c.CreateChangePaymentStatusCommandHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		GetFailedDeliveries: c.CreateGetFailedDeliveriesQueryHandler(),
	})
	router, err := httpadapter.NewRouter(server, httpadapter.RouterConfig{RequestTimeout: c.cfg.RequestTimeout}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP router: %w", err)
	}
	return router, nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
