package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paymentmcp/internal/pkg/utils"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// CORS configures CORS headers. The credential headers must be allowed so
// browser-based MCP clients can open authenticated SSE connections.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization, X-Dealer-Code, X-Username, X-Password, X-Customer-Type-ID")
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}

// RequestLogger assigns a request id and logs each request once it completes.
// Header values are never logged.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = utils.GenerateUUID()
			}
			c.Response().Header().Set(RequestIDHeader, reqID)

			err := next(c)

			logger.Info("HTTP request",
				zap.String("request_id", reqID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.String("ip", c.RealIP()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return err
		}
	}
}
