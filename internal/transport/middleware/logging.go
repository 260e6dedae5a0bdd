package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

// sensitiveFields are never written to logs, whether they appear in
// headers or in JSON payloads.
var sensitiveFields = []string{
	"password",
	"password_hash",
	"token",
	"access_token",
	"refresh_token",
	"authorization",
	"secret",
	"api_key",
	"credential",
}

// credentialPaths get their request bodies dropped from logs entirely.
var credentialPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
}

// LoggingMiddleware emits one structured line per request once the
// handler finishes. Bodies are redacted field by field; login and
// refresh payloads are never logged at all.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			requestBody := captureRequestBody(r)

			ww := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			statusCode := ww.statusCode
			if statusCode == 0 {
				statusCode = http.StatusOK
			}

			level := slog.LevelInfo
			if statusCode >= 500 {
				level = slog.LevelError
			} else if statusCode >= 400 {
				level = slog.LevelWarn
			}

			attrs := []any{
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.size,
				"remote_addr", r.RemoteAddr,
			}
			if requestBody != "" {
				attrs = append(attrs, "request_body", requestBody)
			}

			logger.Log(r.Context(), level, "http request", attrs...)
		})
	}
}

// statusRecorder tracks the status code and body size without keeping
// the response bytes around.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

// captureRequestBody reads and restores the request body, returning a
// redacted copy safe for logs. Credential endpoints return "".
func captureRequestBody(r *http.Request) string {
	if r.Body == nil || r.Method == http.MethodGet {
		return ""
	}
	for _, p := range credentialPaths {
		if r.URL.Path == p {
			return ""
		}
	}

	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	return redactBody(bodyBytes)
}

func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err != nil {
		// non-JSON payloads are dropped rather than risk leaking
		return "[non-json body omitted]"
	}

	filtered, err := json.Marshal(redactJSON(jsonData))
	if err != nil {
		return "[body omitted]"
	}
	return string(filtered)
}

// redactJSON walks the decoded payload and masks sensitive keys.
func redactJSON(data any) any {
	switch v := data.(type) {
	case map[string]any:
		filtered := make(map[string]any, len(v))
		for key, value := range v {
			if isSensitiveKey(key) {
				filtered[key] = "[REDACTED]"
			} else {
				filtered[key] = redactJSON(value)
			}
		}
		return filtered
	case []any:
		filtered := make([]any, len(v))
		for i, item := range v {
			filtered[i] = redactJSON(item)
		}
		return filtered
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
