package router

import (
	"context"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"paymentmcp/internal/middleware"
)

// NewServer creates the echo instance for the SSE transport. Request contexts
// derive from ctx, so cancelling it ends open SSE streams and lets Shutdown
// complete.
func NewServer(ctx context.Context, sseHandler http.Handler, serverName string, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	Setup(e, sseHandler, serverName, logger)
	return e
}

// Setup configures all routes for the SSE transport.
func Setup(e *echo.Echo, sseHandler http.Handler, serverName string, logger *zap.Logger) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger(logger))

	// GET opens the event stream; POST delivers client messages for a session.
	mcpHandler := echo.WrapHandler(sseHandler)
	e.GET("/sse", mcpHandler)
	e.POST("/sse", mcpHandler)
	e.POST("/messages", mcpHandler)
	e.POST("/messages/", mcpHandler)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "server": serverName})
	})
}
