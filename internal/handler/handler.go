package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"addressbook/internal/errors"
)

// respondError maps a service error to an echo HTTP error. Internal failures
// are logged with their cause and answered with a generic body.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func malformed(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, errors.ErrorResponse{
		Error: message,
		Code:  "VALIDATION_ERROR",
	})
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return malformed("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return malformed(err.Error())
	}
	return nil
}
