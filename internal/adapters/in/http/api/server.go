package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// HeaderUserID names the acting user header.
const HeaderUserID = "X-User-ID"

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Issue the next order number of a kitchen
	// (POST /functions/v1/generate-order-number)
	GenerateOrderNumber(ctx echo.Context) error
	// Store an in-app notification for a user
	// (POST /functions/v1/send-notification)
	SendNotification(ctx echo.Context) error
	// (POST /api/v1/kitchens/{kitchenId}/orders)
	CreateOrder(ctx echo.Context, kitchenID openapi_types.UUID, params ActorParams) error
	// (GET /api/v1/kitchens/{kitchenId}/orders/{orderId})
	GetOrder(ctx echo.Context, kitchenID, orderID openapi_types.UUID) error
	// (POST /api/v1/kitchens/{kitchenId}/orders/{orderId}/status)
	ChangeOrderStatus(ctx echo.Context, kitchenID, orderID openapi_types.UUID, params ActorParams) error
	// (POST /api/v1/kitchens/{kitchenId}/orders/{orderId}/payment-status)
	ChangePaymentStatus(ctx echo.Context, kitchenID, orderID openapi_types.UUID, params ActorParams) error
	// List notification deliveries that ran out of attempts
	// (GET /api/v1/deliveries/failed)
	GetFailedDeliveries(ctx echo.Context, params GetFailedDeliveriesParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GenerateOrderNumber(ctx echo.Context) error {
	return w.Handler.GenerateOrderNumber(ctx)
}

func (w *ServerInterfaceWrapper) SendNotification(ctx echo.Context) error {
	return w.Handler.SendNotification(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	kitchenID, err := bindPathUUID(ctx, "kitchenId")
	if err != nil {
		return err
	}
	params, err := bindActor(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CreateOrder(ctx, kitchenID, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	kitchenID, err := bindPathUUID(ctx, "kitchenId")
	if err != nil {
		return err
	}
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, kitchenID, orderID)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	kitchenID, orderID, params, err := bindOrderTarget(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, kitchenID, orderID, params)
}

func (w *ServerInterfaceWrapper) ChangePaymentStatus(ctx echo.Context) error {
	kitchenID, orderID, params, err := bindOrderTarget(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangePaymentStatus(ctx, kitchenID, orderID, params)
}

func (w *ServerInterfaceWrapper) GetFailedDeliveries(ctx echo.Context) error {
	var params GetFailedDeliveriesParams

	if err := runtime.BindQueryParameter("form", true, false, "kitchen_id", ctx.QueryParams(), &params.KitchenID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter kitchen_id: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.GetFailedDeliveries(ctx, params)
}

func bindOrderTarget(ctx echo.Context) (openapi_types.UUID, openapi_types.UUID, ActorParams, error) {
	kitchenID, err := bindPathUUID(ctx, "kitchenId")
	if err != nil {
		return openapi_types.UUID{}, openapi_types.UUID{}, ActorParams{}, err
	}
	orderID, err := bindPathUUID(ctx, "orderId")
	if err != nil {
		return openapi_types.UUID{}, openapi_types.UUID{}, ActorParams{}, err
	}
	params, err := bindActor(ctx)
	if err != nil {
		return openapi_types.UUID{}, openapi_types.UUID{}, ActorParams{}, err
	}
	return kitchenID, orderID, params, nil
}

func bindPathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func bindActor(ctx echo.Context) (ActorParams, error) {
	var params ActorParams

	values := ctx.Request().Header.Values(HeaderUserID)
	if len(values) == 0 {
		return params, nil
	}
	if len(values) > 1 {
		return params, echo.NewHTTPError(http.StatusBadRequest, "Expected one value for "+HeaderUserID)
	}

	var userID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", HeaderUserID, values[0], &userID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter X-User-ID: %s", err))
	}
	params.XUserID = &userID
	return params, nil
}

// EchoRouter is the part of *echo.Echo and *echo.Group the API needs.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/functions/v1/generate-order-number", wrapper.GenerateOrderNumber)
	router.POST(baseURL+"/functions/v1/send-notification", wrapper.SendNotification)
	router.POST(baseURL+"/api/v1/kitchens/:kitchenId/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/kitchens/:kitchenId/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/kitchens/:kitchenId/orders/:orderId/status", wrapper.ChangeOrderStatus)
	router.POST(baseURL+"/api/v1/kitchens/:kitchenId/orders/:orderId/payment-status", wrapper.ChangePaymentStatus)
	router.GET(baseURL+"/api/v1/deliveries/failed", wrapper.GetFailedDeliveries)
}
