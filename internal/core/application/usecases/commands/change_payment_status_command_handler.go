package commands

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

// ChangePaymentStatusCommandHandler applies payment workflow transitions
// under the configured PaymentPolicy.
type ChangePaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	policy     order.PaymentPolicy
	now        func() time.Time
}

// NewChangePaymentStatusCommandHandler creates a handler. policy must come from
// order.NewPaymentPolicy; a zero policy makes every Handle call fail.
func NewChangePaymentStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	policy order.PaymentPolicy,
	now func() time.Time,
) ChangePaymentStatusCommandHandler {
	if now == nil {
		now = time.Now
	}
	return ChangePaymentStatusCommandHandler{uowFactory: uowFactory, publisher: publisher, policy: policy, now: now}
}

func (h ChangePaymentStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangePaymentStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.policy.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.publisher, cmd.target, func(o *order.Order) error {
		return o.ChangePaymentStatus(cmd.PaymentStatus(), h.policy, cmd.ActorID(), h.now())
	})
}
