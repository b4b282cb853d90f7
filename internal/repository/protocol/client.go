package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// Client talks GraphQL over HTTP to the game-protocol edge service.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// ResponseError is returned when the service answers with a non-2xx status or
// a GraphQL errors array.
type ResponseError struct {
	StatusCode int
	Messages   []string
}

func (e *ResponseError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("protocol: unexpected status %d", e.StatusCode)
	}
	return "protocol: " + strings.Join(e.Messages, "; ")
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if c.endpoint == "" {
		return errors.New("protocol: endpoint is not configured")
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("protocol: encode %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("protocol: build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("protocol: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("protocol: read %s response: %w", operation, err)
	}
	c.logger.Debug("protocol call",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(started)),
	)

	var decoded graphQLResponse
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respErr := &ResponseError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			respErr.Messages = errorMessages(decoded.Errors)
		}
		return respErr
	}
	if decodeErr != nil {
		return fmt.Errorf("protocol: decode %s response: %w", operation, decodeErr)
	}
	if len(decoded.Errors) > 0 {
		return &ResponseError{StatusCode: resp.StatusCode, Messages: errorMessages(decoded.Errors)}
	}
	if len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return fmt.Errorf("protocol: %s returned no data", operation)
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("protocol: decode %s data: %w", operation, err)
	}
	return nil
}

func errorMessages(errs []graphQLError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		if msg := strings.TrimSpace(e.Message); msg != "" {
			out = append(out, msg)
		}
	}
	return out
}
