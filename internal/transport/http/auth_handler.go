package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/DiceArena_BackEnd/internal/service"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	group := e.Group("/auth")
	group.GET("/challenge", handler.challenge)
	group.POST("/token", handler.token)
	group.GET("/me", handler.me, RequireAuth(auth))
}

func (h *AuthHandler) challenge(c echo.Context) error {
	challenge, err := h.auth.Challenge(c.Request().Context(), c.QueryParam("wallet"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ChallengeResponse{
		Success: true,
		Challenge: ChallengeBody{
			Wallet:         challenge.Wallet,
			Message:        challenge.Message,
			ChallengeToken: challenge.ChallengeToken,
			ExpiresAt:      challenge.ExpiresAt,
		},
	})
}

func (h *AuthHandler) token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	grant, err := h.auth.Exchange(c.Request().Context(), req.Wallet, req.ChallengeToken, req.Signature)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, TokenResponse{
		Success:     true,
		Wallet:      grant.Wallet,
		AccessToken: grant.AccessToken,
		ExpiresAt:   grant.ExpiresAt,
	})
}

func (h *AuthHandler) me(c echo.Context) error {
	wallet, ok := CurrentWallet(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, MeResponse{Success: true, Wallet: wallet})
}
