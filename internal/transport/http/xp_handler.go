package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/service"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

type XPRoutesConfig struct {
	// RateLimit is claims per second per client IP. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

type XPHandler struct {
	xp *service.XPService
}

func RegisterXP(e *echo.Echo, xp *service.XPService, cfg XPRoutesConfig) {
	handler := &XPHandler{xp: xp}

	var claimMiddleware []echo.MiddlewareFunc
	if cfg.RateLimit > 0 {
		claimMiddleware = append(claimMiddleware, claimRateLimiter(cfg))
	}
	e.POST("/claim-xp", handler.claim, claimMiddleware...)

	if xp.HistoryEnabled() {
		e.GET("/profiles/:address/claims", handler.history)
	}
}

func claimRateLimiter(cfg XPRoutesConfig) echo.MiddlewareFunc {
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, util.Error("unable to identify client"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, util.Error("too many claim requests"))
		},
	})
}

type xpClaimRequest struct {
	ProfileAddress string          `json:"profileAddress"`
	XPAmount       json.RawMessage `json:"xpAmount"`
}

func (h *XPHandler) claim(c echo.Context) error {
	var req xpClaimRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.xp.Claim(c.Request().Context(), domain.XPClaimInput{
		ProfileAddress: req.ProfileAddress,
		XPAmount:       xpAmountFromJSON(req.XPAmount),
	})
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, util.Success(util.Envelope{
		"transactionResult": result.TransactionResult,
		"xpAmount":          echoedAmount(req.XPAmount),
	}))
}

func (h *XPHandler) history(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)

	records, err := h.xp.History(c.Request().Context(), c.Param("address"), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(util.Envelope{
		"claims": records,
		"count":  len(records),
	}))
}

// xpAmountFromJSON accepts a JSON number or a string holding exactly one JSON
// number. Anything else yields a value the service rejects as not a number.
func xpAmountFromJSON(raw json.RawMessage) json.Number {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return json.Number("invalid")
		}
		trimmed = []byte(strings.TrimSpace(s))
		if len(trimmed) == 0 {
			return ""
		}
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var v any
	if err := decoder.Decode(&v); err != nil {
		return json.Number("invalid")
	}
	n, ok := v.(json.Number)
	if !ok {
		return json.Number("invalid")
	}
	if _, err := decoder.Token(); err != io.EOF {
		return json.Number("invalid")
	}
	return n
}

// echoedAmount returns the caller's xpAmount exactly as it was sent.
func echoedAmount(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
