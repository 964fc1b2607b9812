package ports

import (
	"backoffice/internal/core/domain/model/event"
)

// EventPublisher hands committed events to asynchronous delivery.
// Publish never blocks the caller; events it cannot accept are left to the
// outbox relay.
type EventPublisher interface {
	Publish(events ...event.Event)
}
