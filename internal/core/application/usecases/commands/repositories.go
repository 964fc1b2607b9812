// Package commands contains business operations that modify system state.
// Every command follows the same pattern: a constructor-validated command
// value, a handler that opens a unit of work, mutates one aggregate, writes
// its events to the outbox, commits, and only then publishes the events.
package commands

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OutboxRepoFactory provides access to the event outbox within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages transactions that change an order and record its events.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.OrderRepository().Update(ctx, o)
	//   _ = uow.OutboxRepository().Append(ctx, o.PullEvents()...)
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OutboxRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// NumberAllocator issues order numbers. Implemented by services.OrderNumberAllocator.
type NumberAllocator interface {
	Allocate(ctx context.Context, kitchenID kernel.UUID) (order.Number, error)
}
