package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/service"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

type TournamentHandler struct {
	tournaments *service.TournamentService
}

func RegisterTournaments(e *echo.Echo, tournaments *service.TournamentService) {
	handler := &TournamentHandler{tournaments: tournaments}

	group := e.Group("/tournaments")
	group.GET("", handler.list)
	group.GET("/", handler.get)
	group.GET("/:id", handler.get)
}

func (h *TournamentHandler) get(c echo.Context) error {
	tournament, err := h.tournaments.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(util.Envelope{
		"tournament": tournament,
	}))
}

func (h *TournamentHandler) list(c echo.Context) error {
	filter, err := parseTournamentListFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	tournaments, err := h.tournaments.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(util.Envelope{
		"tournaments": tournaments,
		"count":       len(tournaments),
	}))
}

// parseTournamentListFilter leaves Limit at zero when the query omits it so
// the service applies its default.
func parseTournamentListFilter(c echo.Context) (domain.TournamentListFilter, error) {
	filter := domain.TournamentListFilter{
		Status: c.QueryParam("status"),
	}
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}
