// Package rabbitmq publishes lifecycle events to the notifications fanout exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/adapters/out/channels"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Name     = "rabbitmq"
	Exchange = "notifications_fanout"
)

var ErrPublisherIsRequired = errors.New("amqp publisher is required")

var _ ports.Channel = (*Channel)(nil)

// Publisher is the part of *amqp.Channel the channel needs.
type Publisher interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Channel publishes one persistent JSON message per event.
type Channel struct {
	publisher Publisher
}

// NewChannel declares the durable fanout exchange and returns the channel.
func NewChannel(publisher Publisher) (*Channel, error) {
	if publisher == nil {
		return nil, ErrPublisherIsRequired
	}
	if err := publisher.ExchangeDeclare(Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &Channel{publisher: publisher}, nil
}

func (c *Channel) Name() string {
	return Name
}

func (c *Channel) Send(ctx context.Context, ev event.Event) error {
	body, err := channels.Encode(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.publisher.PublishWithContext(ctx, Exchange, ev.Type().String(), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    ev.ID().String(),
		Timestamp:    ev.OccurredAt(),
		Type:         ev.Type().String(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Connection owns the AMQP connection and channel used by Channel.
type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial opens a connection and an AMQP channel on it.
func Dial(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &Connection{conn: conn, ch: ch}, nil
}

// Publisher returns the AMQP channel.
func (c *Connection) Publisher() Publisher {
	return c.ch
}

func (c *Connection) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
