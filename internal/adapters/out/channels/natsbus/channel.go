// Package natsbus publishes lifecycle events on the NATS bus.
//
// Subjects have the form kitchens.<kitchen_id>.orders.<event>, where <event>
// is the event type without its "order." prefix, so subscribers can use
// kitchens.*.orders.> or kitchens.<id>.orders.status_changed.
package natsbus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/adapters/out/channels"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/ports"

	"github.com/nats-io/nats.go"
)

const Name = "nats"

var ErrConnIsRequired = errors.New("nats connection is required")

var _ ports.Channel = (*Channel)(nil)

// Conn is the part of *nats.Conn the channel needs.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

type Channel struct {
	conn Conn
}

func NewChannel(conn Conn) (*Channel, error) {
	if conn == nil {
		return nil, ErrConnIsRequired
	}
	return &Channel{conn: conn}, nil
}

func (c *Channel) Name() string {
	return Name
}

// Subject returns the subject ev is published on.
func Subject(ev event.Event) string {
	return fmt.Sprintf("kitchens.%s.orders.%s", ev.KitchenID(), strings.TrimPrefix(ev.Type().String(), "order."))
}

// Send publishes ev and flushes, so a nil error means the server received it.
func (c *Channel) Send(ctx context.Context, ev event.Event) error {
	body, err := channels.Encode(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := nats.NewMsg(Subject(ev))
	msg.Data = body
	msg.Header.Set(nats.MsgIdHdr, ev.ID().String())
	msg.Header.Set("Content-Type", "application/json")

	if err = c.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	if err = c.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return nil
}

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("backoffice"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}
