package dispatcher_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"backoffice/internal/core/application/dispatcher"
	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEvent(t *testing.T, orderID kernel.UUID, typ event.Type, at time.Time) event.Event {
	t.Helper()
	ev, err := event.New(kernel.NewUUID(), orderID, nil, typ, at, map[string]any{event.KeyOrderNumber: "ORD-20240501-001"})
	require.NoError(t, err)
	return ev
}

func policy(t *testing.T, maxAttempts int) delivery.RetryPolicy {
	t.Helper()
	p, err := delivery.NewRetryPolicy(maxAttempts, time.Second, 4*time.Second)
	require.NoError(t, err)
	return p
}

type fixture struct {
	dispatcher *dispatcher.Dispatcher
	deliveries *memoryDeliveries
	outbox     *memoryOutbox
	clock      *testClock
	logs       *test.Hook
}

func newFixture(t *testing.T, routes ...dispatcher.Route) fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clock := &testClock{now: t0}
	deliveries := newMemoryDeliveries()
	outbox := newMemoryOutbox()

	d, err := dispatcher.New(routes, deliveries, outbox, logger, dispatcher.Config{Workers: 2, QueueSize: 8}, clock.Now)
	require.NoError(t, err)

	return fixture{dispatcher: d, deliveries: deliveries, outbox: outbox, clock: clock, logs: hook}
}

func TestDispatcher_Dispatch_IsolatesChannelFailures(t *testing.T) {
	failing := &recordingChannel{name: "rabbitmq", failWith: errBrokerDown}
	working := &recordingChannel{name: "inapp"}
	f := newFixture(t,
		dispatcher.Route{Channel: failing, Policy: policy(t, 3)},
		dispatcher.Route{Channel: working, Policy: policy(t, 3)},
	)
	ev := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0)

	result, err := f.dispatcher.Dispatch(t.Context(), ev)

	require.NoError(t, err)
	failed, ok := result.Of("rabbitmq")
	require.True(t, ok)
	assert.Equal(t, dispatcher.OutcomeFailed, failed.Outcome)
	assert.Equal(t, "broker down", failed.Reason)

	delivered, _ := result.Of("inapp")
	assert.Equal(t, dispatcher.OutcomeDelivered, delivered.Outcome)
	require.Len(t, working.events(), 1)
	assert.True(t, working.events()[0].ID().IsEqual(ev.ID()))

	assert.Equal(t, delivery.StateFailed, f.deliveries.get(ev.ID(), "rabbitmq").State())
	assert.Equal(t, delivery.StateDelivered, f.deliveries.get(ev.ID(), "inapp").State())
	assert.True(t, f.outbox.isDispatched(ev.ID()))
}

func TestDispatcher_Dispatch_SkipsUnacceptedTypesAndDeliveredChannels(t *testing.T) {
	payments := &recordingChannel{name: "telegram"}
	inapp := &recordingChannel{name: "inapp"}
	f := newFixture(t,
		dispatcher.Route{Channel: payments, EventTypes: []event.Type{event.OrderPaymentStatusChanged}, Policy: policy(t, 3)},
		dispatcher.Route{Channel: inapp, Policy: policy(t, 3)},
	)
	ev := newEvent(t, kernel.NewUUID(), event.OrderStatusChanged, t0)

	first, err := f.dispatcher.Dispatch(t.Context(), ev)
	require.NoError(t, err)
	second, err := f.dispatcher.Dispatch(t.Context(), ev)
	require.NoError(t, err)

	skipped, _ := first.Of("telegram")
	assert.Equal(t, dispatcher.OutcomeSkipped, skipped.Outcome)
	assert.Empty(t, payments.events())

	again, _ := second.Of("inapp")
	assert.Equal(t, dispatcher.OutcomeSkipped, again.Outcome)
	assert.Equal(t, "already delivered", again.Reason)
	assert.Len(t, inapp.events(), 1)
}

func TestDispatcher_RetryDue_BacksOffUntilDead(t *testing.T) {
	failing := &recordingChannel{name: "webhook", failWith: errBrokerDown}
	f := newFixture(t, dispatcher.Route{Channel: failing, Policy: policy(t, 3)})
	ev := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0)
	require.NoError(t, f.outbox.Append(t.Context(), ev))

	_, err := f.dispatcher.Dispatch(t.Context(), ev)
	require.NoError(t, err)

	n, err := f.dispatcher.RetryDue(t.Context(), 10)
	require.NoError(t, err)
	assert.Zero(t, n, "retry must wait for the backoff")

	f.clock.Advance(time.Second)
	n, err = f.dispatcher.RetryDue(t.Context(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	d := f.deliveries.get(ev.ID(), "webhook")
	assert.Equal(t, 2, d.Attempts())
	assert.Equal(t, t0.Add(time.Second+2*time.Second), *d.NextAttemptAt())

	f.clock.Advance(2 * time.Second)
	n, err = f.dispatcher.RetryDue(t.Context(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, delivery.StateDead, d.State())

	f.clock.Advance(time.Hour)
	n, err = f.dispatcher.RetryDue(t.Context(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	deadEntries := 0
	for _, entry := range f.logs.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "Notification delivery permanently failed" {
			deadEntries++
			assert.Equal(t, "webhook", entry.Data["channel"])
			assert.Equal(t, ev.ID().String(), entry.Data["event_id"])
			assert.Equal(t, 3, entry.Data["attempts"])
		}
	}
	assert.Equal(t, 1, deadEntries)
}

func TestDispatcher_Dispatch_UnrecordedOutcome_StaysInOutboxForRelay(t *testing.T) {
	inapp := &recordingChannel{name: "inapp"}
	f := newFixture(t, dispatcher.Route{Channel: inapp, Policy: policy(t, 3)})
	ev := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0)
	require.NoError(t, f.outbox.Append(t.Context(), ev))
	f.deliveries.failNextSaves(1)

	result, err := f.dispatcher.Dispatch(t.Context(), ev)

	require.ErrorIs(t, err, dispatcher.ErrOutcomeNotRecorded)
	assert.False(t, result.Recorded())
	got, _ := result.Of("inapp")
	assert.Equal(t, dispatcher.OutcomeFailed, got.Outcome)
	assert.Equal(t, "database blip", got.Reason)
	assert.Nil(t, f.deliveries.get(ev.ID(), "inapp"))
	assert.Empty(t, inapp.events())
	assert.False(t, f.outbox.isDispatched(ev.ID()))
	assert.True(t, hasLog(f.logs, logrus.ErrorLevel, "Cannot open delivery; event left to outbox relay"))

	f.clock.Advance(time.Minute)
	n, err := f.dispatcher.Relay(t.Context(), 30*time.Second, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, inapp.events(), 1)
	assert.Equal(t, delivery.StateDelivered, f.deliveries.get(ev.ID(), "inapp").State())
	assert.True(t, f.outbox.isDispatched(ev.ID()))
}

func TestDispatcher_Dispatch_AttemptNotSaved_IsNotMarkedDispatched(t *testing.T) {
	tests := []struct {
		name    string
		channel *recordingChannel
		message string
	}{
		{"delivered", &recordingChannel{name: "inapp"}, "Cannot record successful delivery"},
		{"failed", &recordingChannel{name: "inapp", failWith: errBrokerDown}, "Cannot record failed delivery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, dispatcher.Route{Channel: tt.channel, Policy: policy(t, 3)})
			ev := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0)
			require.NoError(t, f.outbox.Append(t.Context(), ev))
			pending, err := delivery.NewDelivery(ev, "inapp", t0)
			require.NoError(t, err)
			require.NoError(t, f.deliveries.Save(t.Context(), pending))
			f.deliveries.failNextSaves(1)

			result, err := f.dispatcher.Dispatch(t.Context(), ev)

			require.ErrorIs(t, err, dispatcher.ErrOutcomeNotRecorded)
			got, _ := result.Of("inapp")
			assert.False(t, got.Recorded)
			assert.False(t, f.outbox.isDispatched(ev.ID()))
			assert.True(t, hasLog(f.logs, logrus.ErrorLevel, tt.message))
		})
	}
}

func TestDispatcher_Relay_ContinuesPastUnrecordedEvents(t *testing.T) {
	inapp := &recordingChannel{name: "inapp"}
	f := newFixture(t, dispatcher.Route{Channel: inapp, Policy: policy(t, 3)})
	first := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0)
	second := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0.Add(time.Second))
	require.NoError(t, f.outbox.Append(t.Context(), first, second))
	f.deliveries.failNextSaves(1)
	f.clock.Advance(time.Minute)

	n, err := f.dispatcher.Relay(t.Context(), 30*time.Second, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, f.outbox.isDispatched(first.ID()))
	assert.True(t, f.outbox.isDispatched(second.ID()))
	assert.True(t, hasLog(f.logs, logrus.WarnLevel, "Relayed event left undispatched"))

	n, err = f.dispatcher.Relay(t.Context(), 30*time.Second, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.outbox.isDispatched(first.ID()))
	assert.Len(t, inapp.events(), 2)
}

func hasLog(hook *test.Hook, level logrus.Level, message string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

func TestDispatcher_Dispatch_TimesOutAndRecoversPanics(t *testing.T) {
	slow := &recordingChannel{name: "slow", block: true}
	broken := &recordingChannel{name: "broken", panics: true}
	f := newFixture(t,
		dispatcher.Route{Channel: slow, Policy: policy(t, 3), Timeout: 20 * time.Millisecond},
		dispatcher.Route{Channel: broken, Policy: policy(t, 3)},
	)
	ev := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0)

	started := time.Now()
	result, err := f.dispatcher.Dispatch(t.Context(), ev)

	require.NoError(t, err)
	assert.Less(t, time.Since(started), 900*time.Millisecond)
	timedOut, _ := result.Of("slow")
	assert.Equal(t, dispatcher.OutcomeFailed, timedOut.Outcome)
	assert.Contains(t, timedOut.Reason, "timed out")
	panicked, _ := result.Of("broken")
	assert.Equal(t, dispatcher.OutcomeFailed, panicked.Outcome)
	assert.Contains(t, panicked.Reason, "panicked")
}

func TestDispatcher_Publish_DeliversPerOrderInSequence(t *testing.T) {
	inapp := &recordingChannel{name: "inapp"}
	f := newFixture(t, dispatcher.Route{Channel: inapp, Policy: policy(t, 3)})
	orderID := kernel.NewUUID()
	events := []event.Event{
		newEvent(t, orderID, event.OrderCreated, t0),
		newEvent(t, orderID, event.OrderStatusChanged, t0.Add(time.Second)),
		newEvent(t, orderID, event.OrderStatusChanged, t0.Add(2*time.Second)),
	}

	f.dispatcher.Start(context.Background())
	f.dispatcher.Publish(events...)
	f.dispatcher.Stop()

	sent := inapp.events()
	require.Len(t, sent, 3)
	for i := range events {
		assert.True(t, sent[i].ID().IsEqual(events[i].ID()))
	}
}

func TestDispatcher_Publish_LeavesEventsToRelayWhenStopped(t *testing.T) {
	inapp := &recordingChannel{name: "inapp"}
	f := newFixture(t, dispatcher.Route{Channel: inapp, Policy: policy(t, 3)})
	ev := newEvent(t, kernel.NewUUID(), event.OrderCreated, t0.Add(-time.Minute))
	require.NoError(t, f.outbox.Append(t.Context(), ev))

	f.dispatcher.Publish(ev)
	assert.Empty(t, inapp.events())

	n, err := f.dispatcher.Relay(t.Context(), 30*time.Second, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, inapp.events(), 1)
	assert.True(t, f.outbox.isDispatched(ev.ID()))

	n, err = f.dispatcher.Relay(t.Context(), 30*time.Second, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNew_ValidatesRoutes(t *testing.T) {
	deliveries := newMemoryDeliveries()
	outbox := newMemoryOutbox()
	ch := &recordingChannel{name: "inapp"}

	_, err := dispatcher.New([]dispatcher.Route{{Channel: ch}}, deliveries, outbox, nil, dispatcher.Config{}, nil)
	assert.ErrorIs(t, err, delivery.ErrRetryPolicyIsNotConstructed)

	_, err = dispatcher.New([]dispatcher.Route{
		{Channel: ch, Policy: policy(t, 1)},
		{Channel: ch, Policy: policy(t, 1)},
	}, deliveries, outbox, nil, dispatcher.Config{}, nil)
	assert.ErrorContains(t, err, "configured twice")

	_, err = dispatcher.New(nil, nil, outbox, nil, dispatcher.Config{}, nil)
	assert.Equal(t, dispatcher.ErrDeliveryRepositoryIsRequired, err)
}
