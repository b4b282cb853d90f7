// Package client is the player-side API client. It signs in with a wallet
// keypair and keeps the resulting token in a session.Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mr-tron/base58"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/session"
)

// ErrSessionExpired is returned, without contacting the server, when the
// stored token is missing or past its expiry.
var ErrSessionExpired = errors.New("session expired, sign in again")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// WalletSigner signs the sign-in challenge.
type WalletSigner interface {
	PublicKey() string
	Sign(message []byte) []byte
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Store { return c.session }

type Challenge struct {
	Wallet         string    `json:"wallet"`
	Message        string    `json:"message"`
	ChallengeToken string    `json:"challengeToken"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (c *Client) Challenge(ctx context.Context, wallet string) (*Challenge, error) {
	var out struct {
		Challenge Challenge `json:"challenge"`
	}
	q := url.Values{"wallet": {wallet}}
	if err := c.do(ctx, http.MethodGet, "/auth/challenge?"+q.Encode(), nil, false, &out); err != nil {
		return nil, err
	}
	return &out.Challenge, nil
}

// Login runs the challenge exchange and stores the issued token.
func (c *Client) Login(ctx context.Context, signer WalletSigner) (string, error) {
	challenge, err := c.Challenge(ctx, signer.PublicKey())
	if err != nil {
		return "", err
	}

	body := map[string]string{
		"wallet":         signer.PublicKey(),
		"challengeToken": challenge.ChallengeToken,
		"signature":      base58.Encode(signer.Sign([]byte(challenge.Message))),
	}
	var out struct {
		Wallet      string `json:"wallet"`
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/token", body, false, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("api: sign-in returned no token")
	}

	c.session.SetAccessToken(&out.AccessToken)
	return out.Wallet, nil
}

func (c *Client) Logout() {
	c.session.ClearAccessToken()
}

// Me asks the server which wallet the stored token belongs to.
func (c *Client) Me(ctx context.Context) (string, error) {
	var out struct {
		Wallet string `json:"wallet"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, true, &out); err != nil {
		return "", err
	}
	return out.Wallet, nil
}

func (c *Client) GetTournament(ctx context.Context, id string) (domain.Tournament, error) {
	var out struct {
		Tournament domain.Tournament `json:"tournament"`
	}
	if err := c.do(ctx, http.MethodGet, "/tournaments/"+url.PathEscape(id), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Tournament, nil
}

func (c *Client) ListTournaments(ctx context.Context, status string, limit int) ([]domain.Tournament, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/tournaments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Tournaments []domain.Tournament `json:"tournaments"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return out.Tournaments, nil
}

type ClaimResult struct {
	TransactionResult json.RawMessage `json:"transactionResult"`
	XPAmount          json.Number     `json:"xpAmount"`
}

// ClaimXP is not idempotent. Retrying after an ambiguous failure can grant XP
// twice.
func (c *Client) ClaimXP(ctx context.Context, profile string, amount json.Number) (*ClaimResult, error) {
	body := map[string]any{
		"profileAddress": profile,
		"xpAmount":       amount,
	}
	var out ClaimResult
	if err := c.do(ctx, http.MethodPost, "/claim-xp", body, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	var token string
	if authenticated {
		if !c.session.IsTokenValid() {
			c.session.ClearAccessToken()
			return ErrSessionExpired
		}
		token, _ = c.session.AccessToken()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Error
			if apiErr.Message == "" {
				apiErr.Message = envelope.Message
			}
		}
		if resp.StatusCode == http.StatusUnauthorized && authenticated {
			c.session.ClearAccessToken()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(out)
}
