// Package outboxrepo stores lifecycle events in the order_events table.
//
// Events are appended in the transaction that changes the order, so an event
// exists exactly when its state change was committed. dispatched_at stays
// NULL until the dispatcher has an outcome for every channel; the relay job
// picks up rows that stay NULL for too long.
package outboxrepo

import (
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventDTO is the order_events row.
type EventDTO struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	KitchenID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	ActorID      *uuid.UUID        `gorm:"type:uuid"`
	EventType    string            `gorm:"type:varchar(64);not null"`
	OccurredAt   time.Time         `gorm:"not null;index:idx_order_events_undispatched,priority:2"`
	Payload      datatypes.JSONMap `gorm:"type:jsonb"`
	DispatchedAt *time.Time        `gorm:"index:idx_order_events_undispatched,priority:1"`
	CreatedAt    time.Time         `gorm:"not null"`
}

func (EventDTO) TableName() string {
	return "order_events"
}

func fromDomain(ev event.Event, now time.Time) EventDTO {
	var actorID *uuid.UUID
	if id := ev.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	return EventDTO{
		ID:         ev.ID().Bytes(),
		KitchenID:  ev.KitchenID().Bytes(),
		OrderID:    ev.OrderID().Bytes(),
		ActorID:    actorID,
		EventType:  ev.Type().String(),
		OccurredAt: ev.OccurredAt(),
		Payload:    datatypes.JSONMap(ev.Payload()),
		CreatedAt:  now,
	}
}

func toDomain(dto EventDTO) (event.Event, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return event.Event{}, err
	}
	kitchenID, err := kernel.UUIDFromGoogle(dto.KitchenID)
	if err != nil {
		return event.Event{}, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return event.Event{}, err
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		a, actorErr := kernel.UUIDFromGoogle(*dto.ActorID)
		if actorErr != nil {
			return event.Event{}, actorErr
		}
		actorID = &a
	}

	return event.Restore(id, kitchenID, orderID, actorID, event.Type(dto.EventType), dto.OccurredAt, dto.Payload)
}
