package commands_test

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, kitchenID, orderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, kitchenID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Append(ctx context.Context, events ...event.Event) error {
	return m.Called(ctx, events).Error(0)
}

func (m *MockOutboxRepository) MarkDispatched(ctx context.Context, eventID kernel.UUID, at time.Time) error {
	return m.Called(ctx, eventID, at).Error(0)
}

func (m *MockOutboxRepository) GetUndispatched(ctx context.Context, olderThan time.Time, limit int) ([]event.Event, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockOutboxRepository) Get(ctx context.Context, eventID kernel.UUID) (event.Event, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(event.Event), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockAllocator struct{ mock.Mock }

func (m *MockAllocator) Allocate(ctx context.Context, kitchenID kernel.UUID) (order.Number, error) {
	args := m.Called(ctx, kitchenID)
	return args.Get(0).(order.Number), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(events ...event.Event) {
	m.Called(events)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockRedeliverer struct{ mock.Mock }

func (m *MockRedeliverer) RetryDue(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockRedeliverer) Relay(ctx context.Context, grace time.Duration, limit int) (int, error) {
	args := m.Called(ctx, grace, limit)
	return args.Int(0), args.Error(1)
}

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func mustNumber(t *testing.T, seq int64) order.Number {
	t.Helper()
	day, err := kernel.NewDate(2024, time.May, 1)
	require.NoError(t, err)
	n, err := order.NewNumber(day, seq)
	require.NoError(t, err)
	return n
}

func validDetails(t *testing.T) order.Details {
	t.Helper()
	customer, err := order.NewCustomer(nil, "Ann", "", "")
	require.NoError(t, err)
	return order.Details{Customer: customer, Type: order.TypeTakeaway}
}

func validTotals(t *testing.T) order.Totals {
	t.Helper()
	totals, err := order.NewTotals(mustMoney(t, "10.00"), mustMoney(t, "0.80"), mustMoney(t, "1.20"), mustMoney(t, "12.00"))
	require.NoError(t, err)
	return totals
}

// storedOrder returns an order as if loaded from the repository.
func storedOrder(t *testing.T, kitchenID kernel.UUID, status order.Status, payment order.PaymentStatus, version int) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:            kernel.NewUUID(),
		KitchenID:     kitchenID,
		Number:        mustNumber(t, 1),
		Details:       validDetails(t),
		Totals:        validTotals(t),
		Status:        status,
		PaymentStatus: payment,
		Version:       version,
		CreatedAt:     fixedNow.Add(-time.Hour),
		UpdatedAt:     fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return o
}
