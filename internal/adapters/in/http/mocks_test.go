package http_test

import (
	"context"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockGenerateOrderNumber struct{ mock.Mock }

func (m *MockGenerateOrderNumber) Handle(ctx context.Context, cmd commands.GenerateOrderNumberCommand) (order.Number, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.Number), args.Error(1)
}

type MockSendNotification struct{ mock.Mock }

func (m *MockSendNotification) Handle(
	ctx context.Context,
	cmd commands.SendNotificationCommand,
) (*notification.Notification, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

type MockCreateOrder struct{ mock.Mock }

func (m *MockCreateOrder) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockChangeOrderStatus struct{ mock.Mock }

func (m *MockChangeOrderStatus) Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockChangePaymentStatus struct{ mock.Mock }

func (m *MockChangePaymentStatus) Handle(
	ctx context.Context,
	cmd commands.ChangePaymentStatusCommand,
) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockGetFailedDeliveries struct{ mock.Mock }

func (m *MockGetFailedDeliveries) Handle(
	ctx context.Context,
	query queries.GetFailedDeliveriesQuery,
) ([]queries.GetFailedDeliveriesQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetFailedDeliveriesQueryResponse), args.Error(1)
}
