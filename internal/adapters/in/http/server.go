package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"backoffice/internal/adapters/in/http/api"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Use case ports of the HTTP adapter. The command and query handlers of the
// application layer satisfy them.
type (
	GenerateOrderNumberHandler interface {
		Handle(ctx context.Context, cmd commands.GenerateOrderNumberCommand) (order.Number, error)
	}
	SendNotificationHandler interface {
		Handle(ctx context.Context, cmd commands.SendNotificationCommand) (*notification.Notification, error)
	}
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
	}
	ChangePaymentStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangePaymentStatusCommand) (*order.Order, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	}
	GetFailedDeliveriesHandler interface {
		Handle(ctx context.Context, query queries.GetFailedDeliveriesQuery) ([]queries.GetFailedDeliveriesQueryResponse, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	GenerateOrderNumber GenerateOrderNumberHandler
	SendNotification    SendNotificationHandler
	CreateOrder         CreateOrderHandler
	ChangeOrderStatus   ChangeOrderStatusHandler
	ChangePaymentStatus ChangePaymentStatusHandler
	GetOrder            GetOrderHandler
	GetFailedDeliveries GetFailedDeliveriesHandler
}

// Server implements api.ServerInterface.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
}

var _ api.ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// GenerateOrderNumber handles POST /functions/v1/generate-order-number.
func (s *Server) GenerateOrderNumber(ctx echo.Context) error {
	var req api.GenerateOrderNumberRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if strings.TrimSpace(req.KitchenID) == "" {
		return badRequest(ctx, "Kitchen ID is required")
	}

	kitchenID, err := kernel.UUIDFromString(req.KitchenID)
	if err != nil {
		return badRequest(ctx, "Invalid kitchen_id: "+err.Error())
	}
	cmd, err := commands.NewGenerateOrderNumberCommand(kitchenID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	number, err := s.handlers.GenerateOrderNumber.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		// Existing clients of this endpoint only distinguish 400 from 500.
		return writeError(ctx, http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, api.OrderNumberResponse{OrderNumber: number.String()})
}

// SendNotification handles POST /functions/v1/send-notification.
func (s *Server) SendNotification(ctx echo.Context) error {
	var req api.SendNotificationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if req.UserID == "" || req.Type == "" || req.Title == "" || req.Message == "" {
		return badRequest(ctx, "Missing required fields")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid user_id: "+err.Error())
	}
	var kitchenID *kernel.UUID
	if req.KitchenID != nil && *req.KitchenID != "" {
		k, parseErr := kernel.UUIDFromString(*req.KitchenID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid kitchen_id: "+parseErr.Error())
		}
		kitchenID = &k
	}

	cmd, err := commands.NewSendNotificationCommand(
		userID, kitchenID, notification.Type(req.Type), req.Title, req.Message, req.Data,
	)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	n, err := s.handlers.SendNotification.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, api.NotificationResponse{Data: toNotificationResponse(n)})
}

// CreateOrder handles POST /api/v1/kitchens/{kitchenId}/orders.
func (s *Server) CreateOrder(ctx echo.Context, kitchenID openapi_types.UUID, params api.ActorParams) error {
	var req api.NewOrder
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	kitchen, actor, err := parseScope(kitchenID, params)
	if err != nil {
		return respondError(ctx, err)
	}
	details, totals, err := toOrderInput(req)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewCreateOrderCommand(kitchen, actor, details, totals)
	if err != nil {
		return respondError(ctx, err)
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(o))
}

// GetOrder handles GET /api/v1/kitchens/{kitchenId}/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, kitchenID, orderID openapi_types.UUID) error {
	kitchen, orderUUID, err := parseTarget(kitchenID, orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(kitchen, orderUUID)
	if err != nil {
		return respondError(ctx, err)
	}

	o, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// ChangeOrderStatus handles POST /api/v1/kitchens/{kitchenId}/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(
	ctx echo.Context,
	kitchenID, orderID openapi_types.UUID,
	params api.ActorParams,
) error {
	var req api.StatusChange
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	kitchen, orderUUID, actor, err := parseOrderScope(kitchenID, orderID, params)
	if err != nil {
		return respondError(ctx, err)
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewChangeOrderStatusCommand(kitchen, orderUUID, status, req.ExpectedVersion, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	o, err := s.handlers.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// ChangePaymentStatus handles POST /api/v1/kitchens/{kitchenId}/orders/{orderId}/payment-status.
func (s *Server) ChangePaymentStatus(
	ctx echo.Context,
	kitchenID, orderID openapi_types.UUID,
	params api.ActorParams,
) error {
	var req api.PaymentStatusChange
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	kitchen, orderUUID, actor, err := parseOrderScope(kitchenID, orderID, params)
	if err != nil {
		return respondError(ctx, err)
	}
	paymentStatus, err := order.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewChangePaymentStatusCommand(kitchen, orderUUID, paymentStatus, req.ExpectedVersion, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	o, err := s.handlers.ChangePaymentStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// GetFailedDeliveries handles GET /api/v1/deliveries/failed.
func (s *Server) GetFailedDeliveries(ctx echo.Context, params api.GetFailedDeliveriesParams) error {
	var kitchenID *kernel.UUID
	if params.KitchenID != nil {
		k, err := kernel.UUIDFromGoogle(*params.KitchenID)
		if err != nil {
			return respondError(ctx, err)
		}
		kitchenID = &k
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetFailedDeliveriesQuery(kitchenID, limit)
	if err != nil {
		return respondError(ctx, err)
	}

	failures, err := s.handlers.GetFailedDeliveries.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]api.FailedDelivery, len(failures))
	for i, f := range failures {
		response[i] = toFailedDeliveryResponse(f)
	}
	return ctx.JSON(http.StatusOK, response)
}

func parseTarget(kitchenID, orderID openapi_types.UUID) (kernel.UUID, kernel.UUID, error) {
	kitchen, kitchenErr := kernel.UUIDFromGoogle(kitchenID)
	orderUUID, orderErr := kernel.UUIDFromGoogle(orderID)
	return kitchen, orderUUID, errors.Join(kitchenErr, orderErr)
}

func parseScope(kitchenID openapi_types.UUID, params api.ActorParams) (kernel.UUID, *kernel.UUID, error) {
	kitchen, err := kernel.UUIDFromGoogle(kitchenID)
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	actor, err := parseActor(params)
	return kitchen, actor, err
}

func parseOrderScope(
	kitchenID, orderID openapi_types.UUID,
	params api.ActorParams,
) (kernel.UUID, kernel.UUID, *kernel.UUID, error) {
	kitchen, orderUUID, err := parseTarget(kitchenID, orderID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, nil, err
	}
	actor, err := parseActor(params)
	return kitchen, orderUUID, actor, err
}

func parseActor(params api.ActorParams) (*kernel.UUID, error) {
	if params.XUserID == nil {
		return nil, nil
	}
	actor, err := kernel.UUIDFromGoogle(*params.XUserID)
	if err != nil {
		return nil, err
	}
	return &actor, nil
}
