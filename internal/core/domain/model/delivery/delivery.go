package delivery

import (
	"errors"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

const maxErrorLength = 1000

var ErrDeliveryIsNotConstructed = errors.New("delivery must be created via NewDelivery or RestoreDelivery")

// Delivery tracks the attempts to send one event on one channel.
type Delivery struct {
	id            kernel.UUID
	eventID       kernel.UUID
	kitchenID     kernel.UUID
	orderID       kernel.UUID
	eventType     event.Type
	channel       string
	state         State
	attempts      int
	lastError     string
	nextAttemptAt *time.Time
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewDelivery opens a pending delivery of ev on channel.
func NewDelivery(ev event.Event, channel string, now time.Time) (*Delivery, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(channel) == "" {
		return nil, errs.NewValueIsRequiredError("channel")
	}

	now = now.UTC()
	return &Delivery{
		id:            kernel.NewUUID(),
		eventID:       ev.ID(),
		kitchenID:     ev.KitchenID(),
		orderID:       ev.OrderID(),
		eventType:     ev.Type(),
		channel:       channel,
		state:         StatePending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// Snapshot is the stored form of a delivery.
type Snapshot struct {
	ID            kernel.UUID
	EventID       kernel.UUID
	KitchenID     kernel.UUID
	OrderID       kernel.UUID
	EventType     event.Type
	Channel       string
	State         State
	Attempts      int
	LastError     string
	NextAttemptAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestoreDelivery rebuilds a delivery from storage.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.EventID.Validate(),
		s.KitchenID.Validate(),
		s.OrderID.Validate(),
		s.EventType.Validate(),
		s.State.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Attempts < 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempts", s.Attempts, 0, "unbounded")
	}

	var next *time.Time
	if s.NextAttemptAt != nil {
		t := s.NextAttemptAt.UTC()
		next = &t
	}

	return &Delivery{
		id:            s.ID,
		eventID:       s.EventID,
		kitchenID:     s.KitchenID,
		orderID:       s.OrderID,
		eventType:     s.EventType,
		channel:       s.Channel,
		state:         s.State,
		attempts:      s.Attempts,
		lastError:     s.LastError,
		nextAttemptAt: next,
		createdAt:     s.CreatedAt.UTC(),
		updatedAt:     s.UpdatedAt.UTC(),
		isConstructed: true,
	}, nil
}

// RecordSuccess marks the delivery delivered.
func (d *Delivery) RecordSuccess(now time.Time) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	d.attempts++
	d.state = StateDelivered
	d.lastError = ""
	d.nextAttemptAt = nil
	d.updatedAt = now.UTC()
	return nil
}

// RecordFailure records a failed attempt and schedules the next one under
// policy. It reports true exactly when this failure made the delivery dead.
func (d *Delivery) RecordFailure(reason string, policy RetryPolicy, now time.Time) (bool, error) {
	if err := errors.Join(d.checkOpen(), policy.Validate()); err != nil {
		return false, err
	}

	now = now.UTC()
	d.attempts++
	d.lastError = truncate(reason)
	d.updatedAt = now

	if d.attempts >= policy.MaxAttempts() {
		d.state = StateDead
		d.nextAttemptAt = nil
		return true, nil
	}

	next := now.Add(policy.Backoff(d.attempts))
	d.state = StateFailed
	d.nextAttemptAt = &next
	return false, nil
}

// IsDue reports whether a retry should run at now.
func (d *Delivery) IsDue(now time.Time) bool {
	return d.state == StateFailed && d.nextAttemptAt != nil && !d.nextAttemptAt.After(now)
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID        { return d.id }
func (d *Delivery) EventID() kernel.UUID   { return d.eventID }
func (d *Delivery) KitchenID() kernel.UUID { return d.kitchenID }
func (d *Delivery) OrderID() kernel.UUID   { return d.orderID }
func (d *Delivery) EventType() event.Type  { return d.eventType }
func (d *Delivery) Channel() string        { return d.channel }
func (d *Delivery) State() State           { return d.state }
func (d *Delivery) Attempts() int          { return d.attempts }
func (d *Delivery) LastError() string      { return d.lastError }
func (d *Delivery) CreatedAt() time.Time   { return d.createdAt }
func (d *Delivery) UpdatedAt() time.Time   { return d.updatedAt }

func (d *Delivery) NextAttemptAt() *time.Time {
	if d.nextAttemptAt == nil {
		return nil
	}
	t := *d.nextAttemptAt
	return &t
}

func (d *Delivery) checkOpen() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.state.IsFinal() {
		return errs.NewInvalidTransitionError("delivery", d.state.String(), "attempt")
	}
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorLength {
		return s
	}
	return s[:maxErrorLength]
}
