// Package event defines the lifecycle event raised by the order model and
// consumed by the notification dispatcher.
//
// Events are facts: they are created once, appended to the outbox in the same
// transaction as the order row that produced them, and never mutated afterwards.
package event

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

// Type names what happened to an order.
type Type string

const (
	OrderCreated              Type = "order.created"
	OrderStatusChanged        Type = "order.status_changed"
	OrderPaymentStatusChanged Type = "order.payment_status_changed"
)

// Payload keys shared by producers and channels.
const (
	KeyOrderNumber   = "order_number"
	KeyStatus        = "status"
	KeyPaymentStatus = "payment_status"
	KeyFrom          = "from"
	KeyTo            = "to"
	KeyTotal         = "total_amount"
	KeyCustomerName  = "customer_name"
	KeyOrderType     = "order_type"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via New or Restore")

// Validate checks the type is one of the known lifecycle events.
func (t Type) Validate() error {
	switch t {
	case OrderCreated, OrderStatusChanged, OrderPaymentStatusChanged:
		return nil
	default:
		return errs.NewValueIsInvalidError("event_type")
	}
}

// String returns the wire name of the type.
func (t Type) String() string {
	return string(t)
}

// Event is an immutable record of a lifecycle fact about one order.
type Event struct {
	id         kernel.UUID
	kitchenID  kernel.UUID
	orderID    kernel.UUID
	actorID    *kernel.UUID
	eventType  Type
	occurredAt time.Time
	payload    map[string]any

	guard guard.ConstructorGuard
}

// New creates an event with a fresh identifier.
func New(
	kitchenID, orderID kernel.UUID,
	actorID *kernel.UUID,
	eventType Type,
	occurredAt time.Time,
	payload map[string]any,
) (Event, error) {
	return Restore(kernel.NewUUID(), kitchenID, orderID, actorID, eventType, occurredAt, payload)
}

// Restore rebuilds an event read back from the outbox.
func Restore(
	id, kitchenID, orderID kernel.UUID,
	actorID *kernel.UUID,
	eventType Type,
	occurredAt time.Time,
	payload map[string]any,
) (Event, error) {
	if err := errors.Join(
		id.Validate(),
		kitchenID.Validate(),
		orderID.Validate(),
		eventType.Validate(),
	); err != nil {
		return Event{}, err
	}
	if occurredAt.IsZero() {
		return Event{}, errs.NewValueIsRequiredError("occurred_at")
	}

	copied := make(map[string]any, len(payload))
	for k, v := range payload {
		copied[k] = v
	}

	var actor *kernel.UUID
	if actorID != nil {
		a := *actorID
		actor = &a
	}

	return Event{
		id:         id,
		kitchenID:  kitchenID,
		orderID:    orderID,
		actorID:    actor,
		eventType:  eventType,
		occurredAt: occurredAt.UTC(),
		payload:    copied,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the event was built by New or Restore.
func (e Event) Validate() error {
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e Event) ID() kernel.UUID { return e.id }
func (e Event) KitchenID() kernel.UUID { return e.kitchenID }
func (e Event) OrderID() kernel.UUID { return e.orderID }
func (e Event) Type() Type { return e.eventType }
func (e Event) OccurredAt() time.Time { return e.occurredAt }

// ActorID returns the user who triggered the event, or nil for system actions.
func (e Event) ActorID() *kernel.UUID {
	if e.actorID == nil {
		return nil
	}
	a := *e.actorID
	return &a
}

// Payload returns a copy of the event payload.
func (e Event) Payload() map[string]any {
	copied := make(map[string]any, len(e.payload))
	for k, v := range e.payload {
		copied[k] = v
	}
	return copied
}

// PayloadString returns a string payload value, or "" when absent.
func (e Event) PayloadString(key string) string {
	if v, ok := e.payload[key].(string); ok {
		return v
	}
	return ""
}
