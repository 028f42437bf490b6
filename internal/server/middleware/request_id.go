package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prairiegroup/storefront/pkg/ctxval"
	"github.com/prairiegroup/storefront/pkg/logger"
)

const (
	XRequestID     = "X-Request-ID"
	XCorrelationID = "X-Correlation-ID"
)

// maxRequestIDLen bounds ids taken from callers.
const maxRequestIDLen = 128

type RequestIDConfig struct {
	Skipper  Skipper
	Generate func() string
}

var DefaultRequestIDConfig = RequestIDConfig{
	Skipper:  DefaultSkipper,
	Generate: uuid.NewString,
}

// GetRequestID returns the id RequestID gave the request, or "" outside it.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(XRequestID).(string); ok {
		return id
	}
	return GetRequestIDFromContext(c.Request().Context())
}

func GetRequestIDFromContext(ctx context.Context) string {
	return logger.RequestID(ctx)
}

// callerRequestID is the caller's request or correlation id when it is short
// printable ASCII.
func callerRequestID(c echo.Context) string {
	for _, name := range []string{XRequestID, XCorrelationID} {
		if id := c.Request().Header.Get(name); validRequestID(id) {
			return id
		}
	}
	return ""
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestID tags each request with the caller's id or a generated one. The id
// goes back in the X-Request-ID header and rides the request context to the
// loggers. The context is also prepared for ctxval.
func RequestID() echo.MiddlewareFunc {
	return RequestIDWithConfig(DefaultRequestIDConfig)
}

func RequestIDWithConfig(config RequestIDConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultRequestIDConfig.Skipper
	}
	if config.Generate == nil {
		config.Generate = DefaultRequestIDConfig.Generate
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			id := callerRequestID(c)
			if id == "" {
				id = config.Generate()
			}

			ctx := logger.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctxval.Wrap(ctx)))
			c.Set(XRequestID, id)
			c.Response().Header().Set(XRequestID, id)
			return next(c)
		}
	}
}
