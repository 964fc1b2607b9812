package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

// ChangeOrderStatusCommandHandler applies kitchen workflow transitions.
// A rejected transition returns InvalidTransitionError and stores nothing.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	now func() time.Time,
) ChangeOrderStatusCommandHandler {
	if now == nil {
		now = time.Now
	}
	return ChangeOrderStatusCommandHandler{uowFactory: uowFactory, publisher: publisher, now: now}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.publisher, cmd.target, func(o *order.Order) error {
		return o.ChangeStatus(cmd.Status(), cmd.ActorID(), h.now())
	})
}
