// Package dispatcher fans lifecycle events out to notification channels.
//
// Dispatch is asynchronous relative to order processing: command handlers
// publish events after commit through Publish, which never blocks. Worker
// goroutines, sharded by order id so that one order's events keep their
// order, run the first attempt on every channel concurrently. Failed
// attempts are never retried inline; RetryDue, driven by a scheduled job,
// picks them up with exponential backoff until the route's RetryPolicy is
// exhausted and the delivery is reported as permanently failed.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

var (
	ErrDeliveryRepositoryIsRequired = errors.New("delivery repository is required")
	ErrOutboxRepositoryIsRequired   = errors.New("outbox repository is required")
	ErrOutcomeNotRecorded           = errors.New("delivery outcome not recorded")
)

var _ ports.EventPublisher = (*Dispatcher)(nil)

// Config sizes the asynchronous part of the dispatcher.
type Config struct {
	// Workers is the number of shards; events of one order always use the same shard.
	Workers int
	// QueueSize is the buffer per shard. Events that do not fit are left to the outbox relay.
	QueueSize int
}

// Dispatcher delivers events to the configured routes and records every
// attempt in the delivery log.
type Dispatcher struct {
	routes     []Route
	byName     map[string]Route
	deliveries ports.DeliveryRepository
	outbox     ports.OutboxRepository
	logger     logrus.FieldLogger
	now        func() time.Time
	workers    int

	mu      sync.RWMutex
	queues  []chan event.Event
	running bool
	wg      sync.WaitGroup
}

// New validates the routes and creates a stopped dispatcher.
func New(
	routes []Route,
	deliveries ports.DeliveryRepository,
	outbox ports.OutboxRepository,
	logger logrus.FieldLogger,
	cfg Config,
	now func() time.Time,
) (*Dispatcher, error) {
	if deliveries == nil {
		return nil, ErrDeliveryRepositoryIsRequired
	}
	if outbox == nil {
		return nil, ErrOutboxRepositoryIsRequired
	}
	if err := validateRoutes(routes); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	byName := make(map[string]Route, len(routes))
	for _, r := range routes {
		byName[r.Channel.Name()] = r
	}

	d := &Dispatcher{
		routes:     append([]Route(nil), routes...),
		byName:     byName,
		deliveries: deliveries,
		outbox:     outbox,
		logger:     logger.WithField("component", "dispatcher"),
		now:        now,
		workers:    cfg.Workers,
		queues:     make([]chan event.Event, cfg.Workers),
	}
	for i := range d.queues {
		d.queues[i] = make(chan event.Event, cfg.QueueSize)
	}
	return d, nil
}

// Start launches the workers. Calling Start twice is a no-op.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true

	for i, q := range d.queues {
		d.wg.Add(1)
		go d.work(ctx, i, q)
	}
	d.logger.WithField("workers", d.workers).Info("Dispatcher started")
}

// Stop closes the queues and waits for the workers to drain them.
// Events published after Stop are left to the outbox relay.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("Dispatcher stopped")
}

// Publish enqueues events for their first delivery attempt without blocking.
func (d *Dispatcher) Publish(events ...event.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ev := range events {
		entry := d.logger.WithFields(logrus.Fields{"event_id": ev.ID().String(), "event_type": ev.Type().String()})
		if !d.running {
			entry.Debug("Dispatcher not running; event left to outbox relay")
			continue
		}

		select {
		case d.queues[d.shard(ev)] <- ev:
		default:
			entry.Warn("Dispatch queue full; event left to outbox relay")
		}
	}
}

// Dispatch runs the first attempt of ev on every route concurrently and
// marks the event dispatched in the outbox once every outcome is in the
// delivery log. A failure on one channel never affects the others; channel
// failures are reported in the result, not as an error. The returned error
// is about bookkeeping only: with ErrOutcomeNotRecorded the event stays
// undispatched and the outbox relay dispatches it again.
func (d *Dispatcher) Dispatch(ctx context.Context, ev event.Event) (DispatchResult, error) {
	if err := ev.Validate(); err != nil {
		return DispatchResult{}, err
	}

	results := make([]ChannelResult, len(d.routes))
	var g errgroup.Group
	for i, r := range d.routes {
		g.Go(func() error {
			results[i] = d.deliverFirst(ctx, r, ev)
			return nil
		})
	}
	_ = g.Wait()

	result := DispatchResult{EventID: ev.ID(), Channels: results}
	if !result.Recorded() {
		return result, fmt.Errorf("event %s: %w", ev.ID(), ErrOutcomeNotRecorded)
	}
	if err := d.outbox.MarkDispatched(ctx, ev.ID(), d.now()); err != nil {
		return result, fmt.Errorf("mark event %s dispatched: %w", ev.ID(), err)
	}
	return result, nil
}

// RetryDue runs the next attempt of up to limit due deliveries and returns
// how many were attempted.
func (d *Dispatcher) RetryDue(ctx context.Context, limit int) (int, error) {
	due, err := d.deliveries.GetDue(ctx, d.now(), limit)
	if err != nil {
		return 0, err
	}

	var g errgroup.Group
	g.SetLimit(d.workers)

	attempted := 0
	for _, dl := range due {
		r, ok := d.byName[dl.Channel()]
		if !ok {
			d.logger.WithFields(logrus.Fields{
				"delivery_id": dl.ID().String(),
				"channel":     dl.Channel(),
			}).Warn("Delivery due on a channel that is no longer configured")
			continue
		}

		attempted++
		g.Go(func() error {
			ev, getErr := d.outbox.Get(ctx, dl.EventID())
			if getErr != nil {
				d.logger.WithError(getErr).WithField("event_id", dl.EventID().String()).
					Error("Cannot load event for retry")
				return nil
			}
			d.attempt(ctx, r, ev, dl)
			return nil
		})
	}
	_ = g.Wait()

	return attempted, nil
}

// Relay dispatches outbox events older than grace that were never marked
// dispatched, oldest first, and returns how many were dispatched. An event
// that still cannot be marked is logged and left for the next run.
func (d *Dispatcher) Relay(ctx context.Context, grace time.Duration, limit int) (int, error) {
	events, err := d.outbox.GetUndispatched(ctx, d.now().Add(-grace), limit)
	if err != nil {
		return 0, err
	}

	relayed := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return relayed, ctx.Err()
		}
		if _, err = d.Dispatch(ctx, ev); err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"event_id":   ev.ID().String(),
				"event_type": ev.Type().String(),
			}).Warn("Relayed event left undispatched")
			continue
		}
		relayed++
	}
	return relayed, nil
}

func (d *Dispatcher) work(ctx context.Context, shard int, queue <-chan event.Event) {
	defer d.wg.Done()

	for ev := range queue {
		result, err := d.Dispatch(ctx, ev)
		entry := d.logger.WithFields(logrus.Fields{
			"shard":      shard,
			"event_id":   ev.ID().String(),
			"event_type": ev.Type().String(),
			"delivered":  result.Count(OutcomeDelivered),
			"failed":     result.Count(OutcomeFailed),
			"skipped":    result.Count(OutcomeSkipped),
		})
		if err != nil {
			entry.WithError(err).Error("Event dispatch bookkeeping failed")
			continue
		}
		entry.Debug("Event dispatched")
	}
}

func (d *Dispatcher) deliverFirst(ctx context.Context, r Route, ev event.Event) ChannelResult {
	name := r.Channel.Name()
	if !r.Accepts(ev.Type()) {
		return ChannelResult{Channel: name, Outcome: OutcomeSkipped, Reason: "event type not accepted", Recorded: true}
	}

	dl, err := d.deliveries.Find(ctx, ev.ID(), name)
	switch {
	case err == nil:
		if dl.State() != delivery.StatePending {
			return ChannelResult{Channel: name, Outcome: OutcomeSkipped, Reason: "already " + dl.State().String(), Recorded: true}
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		if dl, err = delivery.NewDelivery(ev, name, d.now()); err == nil {
			err = d.deliveries.Save(ctx, dl)
		}
	}
	if err != nil {
		d.entry(ev, name).WithError(err).Error("Cannot open delivery; event left to outbox relay")
		return ChannelResult{Channel: name, Outcome: OutcomeFailed, Reason: err.Error()}
	}

	return d.attempt(ctx, r, ev, dl)
}

// attempt sends ev once and records the outcome on dl. A result that is
// not Recorded leaves the stored delivery as it was before the attempt.
func (d *Dispatcher) attempt(ctx context.Context, r Route, ev event.Event, dl *delivery.Delivery) ChannelResult {
	name := r.Channel.Name()
	entry := d.entry(ev, name)

	sendErr := d.send(ctx, r, ev)
	if sendErr == nil {
		result := ChannelResult{Channel: name, Outcome: OutcomeDelivered}
		if err := dl.RecordSuccess(d.now()); err != nil {
			entry.WithError(err).Warn("Delivered event has an unexpected delivery state")
		} else if err = d.deliveries.Save(ctx, dl); err != nil {
			entry.WithError(err).Error("Cannot record successful delivery")
		} else {
			result.Recorded = true
		}
		return result
	}

	result := ChannelResult{Channel: name, Outcome: OutcomeFailed, Reason: sendErr.Error()}
	failure := errs.NewDeliveryFailureErrorWithCause(name, ev.ID().String(), sendErr)
	dead, err := dl.RecordFailure(sendErr.Error(), r.Policy, d.now())
	if err != nil {
		entry.WithError(err).Error("Cannot record failed delivery")
		return result
	}
	if err = d.deliveries.Save(ctx, dl); err != nil {
		entry.WithError(failure).WithField("save_error", err.Error()).Error("Cannot record failed delivery")
		return result
	}
	result.Recorded = true

	entry = entry.WithFields(logrus.Fields{"attempts": dl.Attempts(), "reason": sendErr.Error()})
	if dead {
		entry.WithField("order_id", ev.OrderID().String()).Error("Notification delivery permanently failed")
	} else {
		entry.WithError(failure).WithField("next_attempt_at", dl.NextAttemptAt()).Warn("Notification delivery attempt failed")
	}

	return result
}

func (d *Dispatcher) entry(ev event.Event, channel string) *logrus.Entry {
	return d.logger.WithFields(logrus.Fields{
		"event_id":   ev.ID().String(),
		"event_type": ev.Type().String(),
		"kitchen_id": ev.KitchenID().String(),
		"channel":    channel,
	})
}

// send runs one bounded attempt. A channel that ignores its context or
// panics still yields a failed attempt instead of stalling the dispatcher.
func (d *Dispatcher) send(ctx context.Context, r Route, ev event.Event) error {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("channel %s panicked: %v", r.Channel.Name(), p)
			}
		}()
		done <- r.Channel.Send(attemptCtx, ev)
	}()

	select {
	case err := <-done:
		return err
	case <-attemptCtx.Done():
		return fmt.Errorf("attempt timed out after %s: %w", r.timeout(), attemptCtx.Err())
	}
}

func (d *Dispatcher) shard(ev event.Event) int {
	h := fnv.New32a()
	id := ev.OrderID().Bytes()
	_, _ = h.Write(id[:])
	return int(h.Sum32() % uint32(d.workers)) //nolint:gosec // workers is positive
}
