package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order through the kitchen workflow.
//
// ExpectedVersion is optional: when set, the change is refused with
// ConcurrencyConflictError unless the order is still at that version.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	target orderTarget
	status order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(
	kitchenID, orderID kernel.UUID,
	status order.Status,
	expectedVersion *int,
	actorID *kernel.UUID,
) (ChangeOrderStatusCommand, error) {
	target, err := newOrderTarget(kitchenID, orderID, expectedVersion, actorID)
	if err = errors.Join(err, status.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{target: target, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) KitchenID() kernel.UUID { return c.target.kitchenID }
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID   { return c.target.orderID }
func (c ChangeOrderStatusCommand) Status() order.Status   { return c.status }
func (c ChangeOrderStatusCommand) ActorID() *kernel.UUID  { return c.target.actorID }

// orderTarget is the part shared by commands that transition an existing order.
type orderTarget struct {
	kitchenID       kernel.UUID
	orderID         kernel.UUID
	expectedVersion *int
	actorID         *kernel.UUID
}

func newOrderTarget(kitchenID, orderID kernel.UUID, expectedVersion *int, actorID *kernel.UUID) (orderTarget, error) {
	t := orderTarget{kitchenID: kitchenID, orderID: orderID}

	var versionErr, actorErr error
	if expectedVersion != nil {
		if *expectedVersion < 1 {
			versionErr = errs.NewVersionIsInvalidErrorWithCause(
				"expected_version",
				errs.NewValueIsOutOfRangeError("expected_version", *expectedVersion, 1, "unbounded"),
			)
		} else {
			v := *expectedVersion
			t.expectedVersion = &v
		}
	}
	if actorID != nil {
		if actorErr = actorID.Validate(); actorErr == nil {
			a := *actorID
			t.actorID = &a
		}
	}

	if err := errors.Join(kitchenID.Validate(), orderID.Validate(), versionErr, actorErr); err != nil {
		return orderTarget{}, err
	}
	return t, nil
}
