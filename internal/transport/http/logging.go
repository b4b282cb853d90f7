package http

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redacted           = "redacted"
)

// Keys whose values never reach the logs. Matched as substrings of the
// lowercased key, so accessToken and challengeToken are covered by "token".
var sensitiveKeys = []string{"secret", "signature", "token", "password", "authorization"}

func registerLogging(e *echo.Echo, logger *zap.Logger) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			wallet := "anonymous"
			if w, ok := CurrentWallet(c); ok {
				wallet = w
			}

			fields := []zap.Field{
				zap.String("wallet", wallet),
				zap.String("method", v.Method),
				zap.String("uri", redactQuery(v.URI)),
				zap.Int("status", v.Status),
				zap.Int64("latency_ms", v.Latency.Milliseconds()),
				zap.String("remote_ip", v.RemoteIP),
			}
			if summary := c.Get(requestBodyLogKey); summary != nil {
				fields = append(fields, zap.Any("request_body", summary))
			}
			if summary := c.Get(responseBodyLogKey); summary != nil {
				fields = append(fields, zap.Any("response_body", summary))
			}

			switch {
			case v.Error != nil:
				logger.Error("http request", append(fields, zap.Error(v.Error))...)
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Path()
			return path == "/metrics" || strings.HasPrefix(path, "/swagger")
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if summary := sanitizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
				c.Set(responseBodyLogKey, summary)
			}
		},
	}))
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func redactQuery(uri string) string {
	parsed, err := url.ParseRequestURI(uri)
	if err != nil || parsed.RawQuery == "" {
		return uri
	}
	values := parsed.Query()
	changed := false
	for key := range values {
		if isSensitiveKey(key) {
			values.Set(key, redacted)
			changed = true
		}
	}
	if !changed {
		return uri
	}
	parsed.RawQuery = values.Encode()
	return parsed.RequestURI()
}

func sanitizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}

	loweredType := strings.ToLower(strings.TrimSpace(contentType))

	if strings.HasPrefix(loweredType, "application/json") || json.Valid(body) {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return limitJSONSize(sanitizeJSON(data, false))
		}
	}

	if strings.HasPrefix(loweredType, "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			sanitized := make(map[string]any, len(values))
			for key, vals := range values {
				if isSensitiveKey(key) {
					sanitized[key] = redacted
					continue
				}
				items := make([]any, 0, len(vals))
				for _, v := range vals {
					items = append(items, sanitizeString(v))
				}
				if len(items) == 1 {
					sanitized[key] = items[0]
				} else {
					sanitized[key] = items
				}
			}
			return limitJSONSize(sanitized)
		}
	}

	if containsBinaryBytes(body) {
		return "binary"
	}
	return clampString(string(body))
}

func sanitizeJSON(value any, sensitive bool) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = sanitizeJSON(val, sensitive || isSensitiveKey(key))
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = sanitizeJSON(item, sensitive)
		}
		return result
	case string:
		if sensitive {
			return redacted
		}
		return sanitizeString(v)
	default:
		if sensitive && v != nil {
			return redacted
		}
		return v
	}
}

func sanitizeString(value string) string {
	if containsBinaryBytes([]byte(value)) {
		return "binary"
	}
	return clampString(value)
}

func limitJSONSize(value any) any {
	if value == nil {
		return nil
	}
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	summary := summarizeJSONPreview(value, 0)
	if summary == nil {
		return map[string]any{"_truncated": true}
	}
	return map[string]any{
		"_truncated": true,
		"_preview":   summary,
	}
}

func summarizeJSONPreview(value any, depth int) any {
	const (
		maxDepth         = 3
		maxMapEntries    = 6
		maxArraySamples  = 3
		maxStringPreview = 256
	)

	if depth >= maxDepth {
		return "...(omitted)..."
	}

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := make(map[string]any)
		for i, key := range keys {
			if i >= maxMapEntries {
				result["_omitted_fields"] = len(keys) - i
				break
			}
			result[key] = summarizeJSONPreview(v[key], depth+1)
		}
		return result
	case []any:
		total := len(v)
		sample := make([]any, 0, min(total, maxArraySamples))
		for i := 0; i < total && i < maxArraySamples; i++ {
			sample = append(sample, summarizeJSONPreview(v[i], depth+1))
		}
		out := map[string]any{"_total_items": total}
		if len(sample) > 0 {
			out["_sample"] = sample
		}
		if total > len(sample) {
			out["_omitted_items"] = total - len(sample)
		}
		return out
	case string:
		if len(v) <= maxStringPreview {
			return v
		}
		return truncateUTF8(v, maxStringPreview) + "...(truncated)"
	default:
		return v
	}
}

func containsBinaryBytes(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	return truncateUTF8(value, maxLoggedBody) + "...(truncated)"
}

func truncateUTF8(value string, n int) string {
	out := value[:n]
	for !utf8.ValidString(out) && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out
}
