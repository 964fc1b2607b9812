// Package deliveryrepo keeps the delivery log: one row per event and channel.
package deliveryrepo

import (
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the event_deliveries row.
type DeliveryDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_event_deliveries_event_channel,priority:1"`
	Channel       string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_event_deliveries_event_channel,priority:2"`
	KitchenID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null"`
	EventType     string     `gorm:"type:varchar(64);not null"`
	State         string     `gorm:"type:varchar(16);not null;index:idx_event_deliveries_due,priority:1"`
	Attempts      int        `gorm:"not null"`
	LastError     string     `gorm:"type:text"`
	NextAttemptAt *time.Time `gorm:"index:idx_event_deliveries_due,priority:2"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

func (DeliveryDTO) TableName() string {
	return "event_deliveries"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:            d.ID().Bytes(),
		EventID:       d.EventID().Bytes(),
		Channel:       d.Channel(),
		KitchenID:     d.KitchenID().Bytes(),
		OrderID:       d.OrderID().Bytes(),
		EventType:     d.EventType().String(),
		State:         d.State().String(),
		Attempts:      d.Attempts(),
		LastError:     d.LastError(),
		NextAttemptAt: d.NextAttemptAt(),
		CreatedAt:     d.CreatedAt(),
		UpdatedAt:     d.UpdatedAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.EventID, dto.KitchenID, dto.OrderID} {
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:            ids[0],
		EventID:       ids[1],
		KitchenID:     ids[2],
		OrderID:       ids[3],
		EventType:     event.Type(dto.EventType),
		Channel:       dto.Channel,
		State:         delivery.State(dto.State),
		Attempts:      dto.Attempts,
		LastError:     dto.LastError,
		NextAttemptAt: dto.NextAttemptAt,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	})
}
