package ports

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
)

// DeliveryRepository is the per-channel delivery log.
type DeliveryRepository interface {
	// Find returns the delivery of an event on a channel, or ObjectNotFoundError.
	Find(ctx context.Context, eventID kernel.UUID, channel string) (*delivery.Delivery, error)

	// Save inserts or updates the delivery keyed by (event, channel).
	Save(ctx context.Context, d *delivery.Delivery) error

	// GetDue claims failed deliveries whose next attempt is at or before now.
	// A claimed delivery is not returned again until it is saved or its claim expires.
	GetDue(ctx context.Context, now time.Time, limit int) ([]*delivery.Delivery, error)
}
