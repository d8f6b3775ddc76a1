package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is both the HTTP header and the echo.Context key carrying the
// request ID.
const RequestIDKey = "X-Request-ID"

// FromContext returns the request-scoped logger stored by the request ID
// middleware. When none is present (e.g. in tests that call handlers without
// the middleware chain) it falls back to the global logger, still tagged with
// whatever request ID can be recovered.
func FromContext(c echo.Context) *zap.Logger {
	if log, ok := c.Get("logger").(*zap.Logger); ok {
		return log
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok || requestID == "" {
		requestID = c.Request().Header.Get(RequestIDKey)
	}
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
