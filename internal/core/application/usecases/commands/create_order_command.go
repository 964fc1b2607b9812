package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to place a new order in a kitchen.
//
// Totals and line items are validated here, before an order number is
// allocated, so a malformed request never consumes a number.
//
// Example:
//
//	customer, _ := order.NewCustomer(nil, "Ann", "", "")
//	totals, _ := order.NewTotals(subtotal, tax, tip, total)
//	cmd, err := NewCreateOrderCommand(kitchenID, &staffID, order.Details{
//	    Customer: customer,
//	    Type:     order.TypeTakeaway,
//	}, totals)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	kitchenID kernel.UUID
	actorID   *kernel.UUID
	details   order.Details
	totals    order.Totals

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. All problems are reported together.
func NewCreateOrderCommand(
	kitchenID kernel.UUID,
	actorID *kernel.UUID,
	details order.Details,
	totals order.Totals,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setKitchenID(kitchenID),
		cmd.setActorID(actorID),
		cmd.setDetails(details),
		cmd.setTotals(totals, details.Items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) KitchenID() kernel.UUID { return c.kitchenID }
func (c CreateOrderCommand) ActorID() *kernel.UUID  { return c.actorID }
func (c CreateOrderCommand) Details() order.Details { return c.details }
func (c CreateOrderCommand) Totals() order.Totals   { return c.totals }

func (c *CreateOrderCommand) setKitchenID(kitchenID kernel.UUID) error {
	if err := kitchenID.Validate(); err != nil {
		return err
	}
	c.kitchenID = kitchenID
	return nil
}

func (c *CreateOrderCommand) setActorID(actorID *kernel.UUID) error {
	if actorID == nil {
		return nil
	}
	if err := actorID.Validate(); err != nil {
		return err
	}
	a := *actorID
	c.actorID = &a
	return nil
}

func (c *CreateOrderCommand) setDetails(details order.Details) error {
	if err := details.Type.Validate(); err != nil {
		return err
	}
	if details.Customer.Name() == "" {
		return order.ErrCustomerIsRequired
	}
	c.details = details
	return nil
}

func (c *CreateOrderCommand) setTotals(totals order.Totals, items []order.LineItem) error {
	if err := totals.Total().Validate(); err != nil {
		return err
	}
	if err := totals.CheckItems(items); err != nil {
		return err
	}
	c.totals = totals
	return nil
}
