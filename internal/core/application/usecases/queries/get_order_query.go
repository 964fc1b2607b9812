// Package queries contains read-only use cases.
package queries

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order of a kitchen.
type GetOrderQuery struct {
	kitchenID kernel.UUID
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(kitchenID, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(kitchenID.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{kitchenID: kitchenID, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderReader is the read side of the order repository.
type OrderReader interface {
	Get(ctx context.Context, kitchenID, orderID kernel.UUID) (*order.Order, error)
}

// GetOrderQueryHandler returns ObjectNotFoundError for orders of other kitchens.
type GetOrderQueryHandler struct {
	orders OrderReader
}

func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.orders.Get(ctx, query.kitchenID, query.orderID)
}
