package commands

import (
	"context"

	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

// transitionOrder loads an order inside a unit of work, applies change, and
// persists the order together with the events change raised. The write is
// conditional on the loaded version, so two concurrent transitions from the
// same state cannot both succeed. Events are published after commit only.
func transitionOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	target orderTarget,
	change func(o *order.Order) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, target.kitchenID, target.orderID)
	if err != nil {
		return nil, err
	}

	if target.expectedVersion != nil {
		if err = o.ExpectVersion(*target.expectedVersion); err != nil {
			return nil, err
		}
	}

	if err = change(o); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
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
	publisher.Publish(events...)
	return o, nil
}
