package ports

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
)

// OutboxRepository stores lifecycle events in the same transaction as the
// order change that raised them.
type OutboxRepository interface {
	// Append stores events as undispatched.
	Append(ctx context.Context, events ...event.Event) error

	// MarkDispatched records that every channel has an outcome for the event.
	MarkDispatched(ctx context.Context, eventID kernel.UUID, at time.Time) error

	// GetUndispatched returns events older than olderThan that were never
	// marked dispatched, oldest first.
	GetUndispatched(ctx context.Context, olderThan time.Time, limit int) ([]event.Event, error)

	// Get returns one event. Returns ObjectNotFoundError if absent.
	Get(ctx context.Context, eventID kernel.UUID) (event.Event, error)
}
