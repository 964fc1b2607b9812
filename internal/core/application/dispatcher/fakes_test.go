package dispatcher_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

type memoryDeliveries struct {
	mu    sync.Mutex
	items map[string]*delivery.Delivery
	saves int

	// failSaves makes the next n saves return errDatabaseBlip without storing anything.
	failSaves int
}

func newMemoryDeliveries() *memoryDeliveries {
	return &memoryDeliveries{items: make(map[string]*delivery.Delivery)}
}

func deliveryKey(eventID kernel.UUID, channel string) string {
	return eventID.String() + "/" + channel
}

func (m *memoryDeliveries) Find(_ context.Context, eventID kernel.UUID, channel string) (*delivery.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[deliveryKey(eventID, channel)]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery", deliveryKey(eventID, channel))
	}
	return d, nil
}

func (m *memoryDeliveries) Save(_ context.Context, d *delivery.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves > 0 {
		m.failSaves--
		return errDatabaseBlip
	}
	m.items[deliveryKey(d.EventID(), d.Channel())] = d
	m.saves++
	return nil
}

func (m *memoryDeliveries) GetDue(_ context.Context, now time.Time, limit int) ([]*delivery.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []*delivery.Delivery
	for _, d := range m.items {
		if d.IsDue(now) && len(due) < limit {
			due = append(due, d)
		}
	}
	return due, nil
}

func (m *memoryDeliveries) failNextSaves(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSaves = n
}

func (m *memoryDeliveries) get(eventID kernel.UUID, channel string) *delivery.Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[deliveryKey(eventID, channel)]
}

type memoryOutbox struct {
	mu         sync.Mutex
	events     map[kernel.UUID]event.Event
	dispatched map[kernel.UUID]time.Time
}

func newMemoryOutbox(events ...event.Event) *memoryOutbox {
	o := &memoryOutbox{events: make(map[kernel.UUID]event.Event), dispatched: make(map[kernel.UUID]time.Time)}
	_ = o.Append(context.Background(), events...)
	return o
}

func (o *memoryOutbox) Append(_ context.Context, events ...event.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ev := range events {
		o.events[ev.ID()] = ev
	}
	return nil
}

func (o *memoryOutbox) MarkDispatched(_ context.Context, eventID kernel.UUID, at time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dispatched[eventID] = at
	return nil
}

func (o *memoryOutbox) GetUndispatched(_ context.Context, olderThan time.Time, limit int) ([]event.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []event.Event
	for id, ev := range o.events {
		if _, done := o.dispatched[id]; !done && ev.OccurredAt().Before(olderThan) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt().Before(out[j].OccurredAt()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *memoryOutbox) Get(_ context.Context, eventID kernel.UUID) (event.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ev, ok := o.events[eventID]
	if !ok {
		return event.Event{}, errs.NewObjectNotFoundError("event", eventID.String())
	}
	return ev, nil
}

func (o *memoryOutbox) isDispatched(eventID kernel.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.dispatched[eventID]
	return ok
}

// recordingChannel records delivered events; failWith makes every send fail.
type recordingChannel struct {
	name     string
	failWith error
	block    bool
	panics   bool

	mu   sync.Mutex
	sent []event.Event
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(ctx context.Context, ev event.Event) error {
	if c.panics {
		panic("boom")
	}
	if c.block {
		time.Sleep(time.Second)
		return nil
	}
	if c.failWith != nil {
		return c.failWith
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, ev)
	return ctx.Err()
}

func (c *recordingChannel) events() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Event(nil), c.sent...)
}

var (
	errBrokerDown   = errors.New("broker down")
	errDatabaseBlip = errors.New("database blip")
)
