// Package channels holds the notification channels that deliver lifecycle
// events outside the process. Every channel implements ports.Channel and
// is driven by the dispatcher, which owns timeouts, retries and logging;
// a channel only makes one attempt and reports its outcome.
package channels

import (
	"encoding/json"
	"time"

	"backoffice/internal/core/domain/model/event"
)

// Message is the JSON envelope published by the broker, bus and webhook channels.
type Message struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	KitchenID  string         `json:"kitchen_id"`
	OrderID    string         `json:"order_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// NewMessage builds the envelope of ev.
func NewMessage(ev event.Event) Message {
	msg := Message{
		EventID:    ev.ID().String(),
		EventType:  ev.Type().String(),
		KitchenID:  ev.KitchenID().String(),
		OrderID:    ev.OrderID().String(),
		OccurredAt: ev.OccurredAt(),
		Payload:    ev.Payload(),
	}
	if actor := ev.ActorID(); actor != nil {
		msg.ActorID = actor.String()
	}
	return msg
}

// Encode returns the JSON envelope of ev.
func Encode(ev event.Event) ([]byte, error) {
	return json.Marshal(NewMessage(ev))
}
