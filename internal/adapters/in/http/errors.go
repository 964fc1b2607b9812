package http

import (
	"errors"
	"net/http"

	"backoffice/internal/adapters/in/http/api"
	"backoffice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// causeKey carries a server-side failure to the request logger.
const causeKey = "http.cause"

// StatusFor maps an application error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrSequenceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx echo.Context, err error) error {
	return writeError(ctx, StatusFor(err), err)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, api.Error{Code: http.StatusBadRequest, Message: message})
}

func writeError(ctx echo.Context, status int, err error) error {
	body := api.Error{Code: status, Message: err.Error()}

	var transition *errs.InvalidTransitionError
	if errors.As(err, &transition) {
		body.CurrentState = &transition.From
		body.RequestedState = &transition.To
	}
	if status >= http.StatusInternalServerError {
		ctx.Set(causeKey, err)
	}

	return ctx.JSON(status, body)
}

// HTTPErrorHandler renders errors that escape the handlers, such as binding
// and OpenAPI validation failures, in the API error shape.
func HTTPErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if ctx.Request().Method == http.MethodHead {
		err = ctx.NoContent(status)
	} else {
		err = ctx.JSON(status, api.Error{Code: status, Message: message})
	}
	if err != nil {
		ctx.Logger().Error(err)
	}
}
