package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/DiceArena_BackEnd/internal/service"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

const (
	contextWalletKey = "auth.wallet"
	contextTokenKey  = "auth.token"
)

func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(authHeader) == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("missing authorization header"))
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid authorization header"))
			}
			token := strings.TrimSpace(parts[1])
			wallet, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
			}
			c.Set(contextWalletKey, wallet)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

func CurrentWallet(c echo.Context) (string, bool) {
	wallet, ok := c.Get(contextWalletKey).(string)
	return wallet, ok && wallet != ""
}
