package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Every read is scoped by kitchen: an order is never visible through another tenant.
type OrderRepository interface {
	// Add persists a new order aggregate.
	// A duplicate order number within the kitchen is rejected by storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists an order that was changed since it was loaded.
	// The write is conditional on the stored version still being
	// aggregate.PersistedVersion(); otherwise ConcurrencyConflictError is returned.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order of a kitchen. Returns ObjectNotFoundError when
	// the order does not exist or belongs to another kitchen.
	Get(ctx context.Context, kitchenID, orderID kernel.UUID) (*order.Order, error)
}
