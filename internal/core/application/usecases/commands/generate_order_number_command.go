package commands

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/guard"
)

var ErrGenerateOrderNumberCommandIsNotConstructed = errors.New(
	"GenerateOrderNumberCommand must be created via NewGenerateOrderNumberCommand constructor",
)

// GenerateOrderNumberCommand reserves the next order number of a kitchen
// without creating an order. Every call consumes a number.
type GenerateOrderNumberCommand struct {
	kitchenID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGenerateOrderNumberCommand(kitchenID kernel.UUID) (GenerateOrderNumberCommand, error) {
	if err := kitchenID.Validate(); err != nil {
		return GenerateOrderNumberCommand{}, err
	}
	return GenerateOrderNumberCommand{kitchenID: kitchenID, guard: guard.NewConstructorGuard()}, nil
}

func (c GenerateOrderNumberCommand) Validate() error {
	return c.guard.Validate(ErrGenerateOrderNumberCommandIsNotConstructed)
}

func (c GenerateOrderNumberCommand) KitchenID() kernel.UUID {
	return c.kitchenID
}

// GenerateOrderNumberCommandHandler delegates to the allocator.
type GenerateOrderNumberCommandHandler struct {
	allocator NumberAllocator
}

func NewGenerateOrderNumberCommandHandler(allocator NumberAllocator) GenerateOrderNumberCommandHandler {
	return GenerateOrderNumberCommandHandler{allocator: allocator}
}

func (h GenerateOrderNumberCommandHandler) Handle(
	ctx context.Context,
	cmd GenerateOrderNumberCommand,
) (order.Number, error) {
	if err := cmd.Validate(); err != nil {
		return order.Number{}, err
	}
	return h.allocator.Allocate(ctx, cmd.KitchenID())
}
