package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"backoffice/internal/adapters/in/http/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig configures the echo instance.
type RouterConfig struct {
	RequestTimeout time.Duration
}

// allowedHeaders keeps the CORS contract of the original edge functions and
// adds the acting user header.
var allowedHeaders = []string{
	"authorization", "x-client-info", "apikey", echo.HeaderContentType, api.HeaderUserID,
}

// NewRouter builds the echo instance serving the API, the health probe and
// the swagger UI.
func NewRouter(server api.ServerInterface, cfg RouterConfig, logger logrus.FieldLogger) (*echo.Echo, error) {
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err = api.RegisterDocs(doc); err != nil {
		return nil, err
	}
	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: allowedHeaders,
	}))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	apiGroup := e.Group("", validator)
	api.RegisterHandlers(apiGroup, server)

	return e, nil
}

// OpenAPIValidator rejects requests that do not match the OpenAPI document.
// Routes unknown to the document pass through.
func OpenAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	// Match on path only: the servers list describes deployments, not hosts to enforce.
	doc.Servers = nil
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, findErr := router.FindRoute(req)
			if findErr != nil {
				if errors.Is(findErr, routers.ErrPathNotFound) || errors.Is(findErr, routers.ErrMethodNotAllowed) {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusBadRequest, findErr.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if validateErr := openapi3filter.ValidateRequest(req.Context(), input); validateErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationMessage(validateErr))
			}
			return next(c)
		}
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		// The first line names the parameter or body; the rest dumps the schema.
		return strings.SplitN(reqErr.Error(), "\n", 2)[0]
	}
	return strings.SplitN(err.Error(), "\n", 2)[0]
}

// RequestLogger logs every request with logrus.
func RequestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	logger = logger.WithField("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			cause, _ := c.Get(causeKey).(error)
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("Request failed")
			case cause != nil:
				entry.WithError(cause).Error("Request failed")
			case v.Status >= http.StatusInternalServerError:
				entry.Error("Request failed")
			case errors.Is(c.Request().Context().Err(), context.DeadlineExceeded):
				entry.Warn("Request timed out")
			default:
				entry.Info("Request handled")
			}
			return nil
		},
	})
}
