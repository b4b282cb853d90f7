package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/DiceArena_BackEnd/internal/service"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

// writeServiceError maps the service error kinds onto HTTP statuses. The body
// is always {"error": message}.
func writeServiceError(c echo.Context, err error) error {
	message := "internal error"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Error()
	}

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, util.Error(message))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, util.Error(message))
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, util.Error(message))
	case errors.Is(err, service.ErrUpstream):
		return c.JSON(http.StatusInternalServerError, util.Error(message))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}
