package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"addressbook/internal/errors"
)

// PingFunc checks a backing dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler serves the public liveness endpoints.
type HealthHandler struct {
	ping PingFunc
}

// NewHealthHandler creates a health handler. A nil ping always reports healthy.
func NewHealthHandler(ping PingFunc) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Root returns a welcome message.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the Address Book API",
	})
}

// Healthz reports 200 while the database answers a ping.
func (h *HealthHandler) Healthz(c echo.Context) error {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.Logger().Warnf("health check failed: %v", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
				Error: "database unavailable",
				Code:  "UNAVAILABLE",
			})
		}
	}
	return c.String(http.StatusOK, "ok")
}
