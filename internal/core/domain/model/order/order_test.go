package order_test

import (
	"errors"
	"testing"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	day, err := kernel.NewDate(2024, time.May, 1)
	require.NoError(t, err)
	number, err := order.NewNumber(day, 1)
	require.NoError(t, err)
	customer, err := order.NewCustomer(nil, "Ann", "+1 555 0100", "ann@example.com")
	require.NoError(t, err)
	totals, err := order.NewTotals(money(t, "10.00"), money(t, "0.80"), money(t, "1.20"), money(t, "12.00"))
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		number,
		order.Details{Customer: customer, Type: order.TypeTakeaway},
		totals,
		nil,
		createdAt,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with one created event", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, 1, o.Version())
		assert.Equal(t, 0, o.PersistedVersion())
		assert.Equal(t, createdAt, o.CreatedAt())
		assert.Equal(t, createdAt, o.UpdatedAt())
		assert.Nil(t, o.CompletedAt())

		events := o.Events()
		require.Len(t, events, 1)
		assert.Equal(t, event.OrderCreated, events[0].Type())
		assert.True(t, events[0].OrderID().IsEqual(o.ID()))
		assert.True(t, events[0].KitchenID().IsEqual(o.KitchenID()))
		assert.Equal(t, "ORD-20240501-001", events[0].PayloadString(event.KeyOrderNumber))
		assert.Equal(t, "12.00", events[0].PayloadString(event.KeyTotal))
	})

	t.Run("should fail when subtotal does not match items", func(t *testing.T) {
		day, _ := kernel.NewDate(2024, time.May, 1)
		number, _ := order.NewNumber(day, 1)
		customer, _ := order.NewCustomer(nil, "Ann", "", "")
		item, _ := order.NewLineItem(nil, "Burger", 1, money(t, "9.00"))
		totals, _ := order.NewTotals(money(t, "10.00"), money(t, "0"), money(t, "0"), money(t, "10.00"))

		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), number,
			order.Details{Customer: customer, Type: order.TypeDineIn, Items: []order.LineItem{item}},
			totals, nil, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "subtotal")
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, order.Number{}, order.Details{}, order.Totals{}, nil, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order number must be created")
		assert.Contains(t, err.Error(), "order_type")
		assert.Contains(t, err.Error(), "customer_name")
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should walk the full lifecycle", func(t *testing.T) {
		o := newTestOrder(t)
		o.PullEvents()
		actor := kernel.NewUUID()

		for i, target := range []order.Status{order.StatusPreparing, order.StatusReady, order.StatusDelivered} {
			now := createdAt.Add(time.Duration(i+1) * time.Minute)

			require.NoError(t, o.ChangeStatus(target, &actor, now))
			assert.Equal(t, target, o.Status())
			assert.Equal(t, now, o.UpdatedAt())
			assert.Equal(t, i+2, o.Version())
		}

		require.NotNil(t, o.CompletedAt())
		assert.Equal(t, createdAt.Add(3*time.Minute), *o.CompletedAt())

		events := o.PullEvents()
		require.Len(t, events, 3)
		assert.Equal(t, event.OrderStatusChanged, events[2].Type())
		assert.Equal(t, "ready", events[2].PayloadString(event.KeyFrom))
		assert.Equal(t, "delivered", events[2].PayloadString(event.KeyTo))
		assert.True(t, events[2].ActorID().IsEqual(actor))
		assert.Empty(t, o.PullEvents())
	})

	t.Run("should leave the order untouched on a rejected transition", func(t *testing.T) {
		o := newTestOrder(t)
		o.PullEvents()

		err := o.ChangeStatus(order.StatusDelivered, nil, createdAt.Add(time.Minute))

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrInvalidTransition))
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, 1, o.Version())
		assert.Equal(t, createdAt, o.UpdatedAt())
		assert.Empty(t, o.Events())
	})

	t.Run("should not leave cancelled", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ChangeStatus(order.StatusCancelled, nil, createdAt))

		err := o.ChangeStatus(order.StatusPreparing, nil, createdAt)

		assert.True(t, errors.Is(err, errs.ErrInvalidTransition))
		assert.Nil(t, o.CompletedAt())
	})
}

func TestOrder_ChangePaymentStatus(t *testing.T) {
	t.Run("should respect the retry policy", func(t *testing.T) {
		o := newTestOrder(t)
		strict := order.NewPaymentPolicy(false)
		require.NoError(t, o.ChangePaymentStatus(order.PaymentFailed, strict, nil, createdAt))

		err := o.ChangePaymentStatus(order.PaymentPending, strict, nil, createdAt)
		assert.True(t, errors.Is(err, errs.ErrInvalidTransition))
		assert.Equal(t, 2, o.Version())

		require.NoError(t, o.ChangePaymentStatus(order.PaymentPending, order.NewPaymentPolicy(true), nil, createdAt))
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, 3, o.Version())
	})

	t.Run("should be independent of the kitchen status", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ChangeStatus(order.StatusCancelled, nil, createdAt))

		require.NoError(t, o.ChangePaymentStatus(order.PaymentPaid, order.NewPaymentPolicy(false), nil, createdAt))
		require.NoError(t, o.ChangePaymentStatus(order.PaymentRefunded, order.NewPaymentPolicy(false), nil, createdAt))

		events := o.PullEvents()
		require.Len(t, events, 4)
		assert.Equal(t, event.OrderPaymentStatusChanged, events[3].Type())
		assert.Equal(t, "refunded", events[3].PayloadString(event.KeyPaymentStatus))
	})
}

func TestOrder_ExpectVersion(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.ExpectVersion(1))

	err := o.ExpectVersion(2)
	assert.True(t, errors.Is(err, errs.ErrConcurrencyConflict))
}

func TestRestoreOrder(t *testing.T) {
	src := newTestOrder(t)
	require.NoError(t, src.ChangeStatus(order.StatusPreparing, nil, createdAt.Add(time.Minute)))

	restored, err := order.RestoreOrder(order.Snapshot{
		ID:            src.ID(),
		KitchenID:     src.KitchenID(),
		Number:        src.Number(),
		Details:       order.Details{Customer: src.Customer(), Type: src.Type()},
		Totals:        src.Totals(),
		Status:        src.Status(),
		PaymentStatus: src.PaymentStatus(),
		Version:       src.Version(),
		CreatedAt:     src.CreatedAt(),
		UpdatedAt:     src.UpdatedAt(),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, restored.Version())
	assert.Equal(t, 2, restored.PersistedVersion())
	assert.Empty(t, restored.Events())

	_, err = order.RestoreOrder(order.Snapshot{})
	require.Error(t, err)
}

func TestOrder_MarkPersisted(t *testing.T) {
	o := newTestOrder(t)

	o.MarkPersisted()

	assert.Equal(t, o.Version(), o.PersistedVersion())
}

func TestNewCustomer(t *testing.T) {
	_, err := order.NewCustomer(nil, "  ", "", "")
	assert.True(t, errors.Is(err, errs.ErrValueIsRequired))

	_, err = order.NewCustomer(nil, "Ann", "", "not-an-email")
	assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))

	id := kernel.NewUUID()
	c, err := order.NewCustomer(&id, "Ann", "", "")
	require.NoError(t, err)
	assert.True(t, c.ID().IsEqual(id))
}
