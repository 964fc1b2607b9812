package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/guard"
)

var ErrChangePaymentStatusCommandIsNotConstructed = errors.New(
	"ChangePaymentStatusCommand must be created via NewChangePaymentStatusCommand constructor",
)

// ChangePaymentStatusCommand moves an order through the payment workflow.
// Whether failed -> pending is allowed is decided by the handler's PaymentPolicy.
type ChangePaymentStatusCommand struct { //nolint:recvcheck //using for validation
	target        orderTarget
	paymentStatus order.PaymentStatus

	guard guard.ConstructorGuard
}

func NewChangePaymentStatusCommand(
	kitchenID, orderID kernel.UUID,
	paymentStatus order.PaymentStatus,
	expectedVersion *int,
	actorID *kernel.UUID,
) (ChangePaymentStatusCommand, error) {
	target, err := newOrderTarget(kitchenID, orderID, expectedVersion, actorID)
	if err = errors.Join(err, paymentStatus.Validate()); err != nil {
		return ChangePaymentStatusCommand{}, err
	}

	return ChangePaymentStatusCommand{
		target:        target,
		paymentStatus: paymentStatus,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ChangePaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangePaymentStatusCommandIsNotConstructed)
}

func (c ChangePaymentStatusCommand) KitchenID() kernel.UUID             { return c.target.kitchenID }
func (c ChangePaymentStatusCommand) OrderID() kernel.UUID               { return c.target.orderID }
func (c ChangePaymentStatusCommand) PaymentStatus() order.PaymentStatus { return c.paymentStatus }
func (c ChangePaymentStatusCommand) ActorID() *kernel.UUID              { return c.target.actorID }
