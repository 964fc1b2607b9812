package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

// CreateOrderCommandHandler places orders.
//
// Flow: allocate a number (outside the transaction, so a failed insert leaves
// a gap rather than a reused number), build the aggregate, then store the
// order row and its OrderCreated event in one transaction. The event is
// published only after commit.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, allocator, dispatcher, time.Now)
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(o.Number()) // ORD-20240501-001
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	allocator  NumberAllocator
	publisher  ports.EventPublisher
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler. now defaults to time.Now.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	allocator NumberAllocator,
	publisher ports.EventPublisher,
	now func() time.Time,
) CreateOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		publisher:  publisher,
		now:        now,
	}
}

// Handle creates the order and returns it as stored.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	number, err := h.allocator.Allocate(ctx, cmd.KitchenID())
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), cmd.KitchenID(), number, cmd.Details(), cmd.Totals(), cmd.ActorID(), h.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	events := o.PullEvents()
	if err = uow.OutboxRepository().Append(ctx, events...); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	o.MarkPersisted()
	h.publisher.Publish(events...)
	return o, nil
}
