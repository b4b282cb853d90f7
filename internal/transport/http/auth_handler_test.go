package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"

	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

func TestWalletSignInFlow(t *testing.T) {
	srv := newTestServer(t, XPRoutesConfig{})
	player, err := util.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}

	rec := srv.do(http.MethodGet, "/auth/challenge?wallet="+player.PublicKey(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var challenge ChallengeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &challenge); err != nil {
		t.Fatalf("decode challenge: %v", err)
	}

	payload, _ := json.Marshal(TokenRequest{
		Wallet:         player.PublicKey(),
		ChallengeToken: challenge.Challenge.ChallengeToken,
		Signature:      base58.Encode(player.Sign([]byte(challenge.Challenge.Message))),
	})
	rec = srv.do(http.MethodPost, "/auth/token", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var token TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token.AccessToken)
	meRec := httptest.NewRecorder()
	srv.echo.ServeHTTP(meRec, req)
	if meRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", meRec.Code, meRec.Body.String())
	}
	if !strings.Contains(meRec.Body.String(), player.PublicKey()) {
		t.Fatalf("expected wallet in body, got %s", meRec.Body.String())
	}
}

func TestAuthTokenRejectsBadSignature(t *testing.T) {
	srv := newTestServer(t, XPRoutesConfig{})
	player, _ := util.GenerateKeypair()
	impostor, _ := util.GenerateKeypair()

	challenge, err := srv.auth.Challenge(context.Background(), player.PublicKey())
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	payload, _ := json.Marshal(TokenRequest{
		Wallet:         player.PublicKey(),
		ChallengeToken: challenge.ChallengeToken,
		Signature:      base58.Encode(impostor.Sign([]byte(challenge.Message))),
	})

	rec := srv.do(http.MethodPost, "/auth/token", string(payload))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthChallengeRejectsBadWallet(t *testing.T) {
	srv := newTestServer(t, XPRoutesConfig{})

	rec := srv.do(http.MethodGet, "/auth/challenge?wallet=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t, XPRoutesConfig{})

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}
