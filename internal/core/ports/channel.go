package ports

import (
	"context"

	"backoffice/internal/core/domain/model/event"
)

// Channel delivers lifecycle events to one destination (in-app records,
// a message broker, a chat, a webhook).
//
// Send must honour ctx cancellation: the dispatcher bounds every attempt
// with a timeout and counts an expired context as a failed attempt.
type Channel interface {
	// Name identifies the channel in the delivery log. It must be stable.
	Name() string

	// Send delivers ev once. A nil error means delivered.
	Send(ctx context.Context, ev event.Event) error
}
