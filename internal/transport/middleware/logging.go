package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	pkglogger "github.com/frahmantamala/vehicle-permit/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const filtered = "[FILTERED]"

// sensitiveFields are matched as substrings of lower-cased JSON keys and
// header names.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
}

// routeResources maps a route prefix to the log field its {id} param fills.
var routeResources = []struct {
	prefix string
	field  string
}{
	{"/api/v1/permit-requests/", "permit_request_id"},
	{"/api/v1/notifications/", "notification_id"},
}

type requestInfoKey struct{}

// requestInfo is filled in by inner handlers so the access log can report
// who made the request after the handler chain returns.
type requestInfo struct {
	userID int64
}

// RecordUserID attaches the authenticated user to the access log entry of
// the current request. It is a no-op outside LoggingMiddleware.
func RecordUserID(ctx context.Context, userID int64) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := pkglogger.FromOr(r.Context(), logger)

			info := &requestInfo{}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info))

			reqBody := readBody(r)
			lg.Info("incoming request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", filterHeaders(r.Header),
				"body", filterSensitiveBody(reqBody),
			)

			var respBody bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&respBody)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", filterSensitiveBody(respBody.Bytes()),
			}
			attrs = append(attrs, routeAttrs(r)...)
			if info.userID != 0 {
				attrs = append(attrs, "user_id", info.userID)
			}

			lg.Log(r.Context(), levelFor(status), "response", attrs...)
		})
	}
}

func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// routeAttrs reports the matched route pattern and, for permit request and
// notification routes, the resource id taken from the URL.
func routeAttrs(r *http.Request) []any {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}

	pattern := rctx.RoutePattern()
	if pattern == "" {
		return nil
	}
	attrs := []any{"route", pattern}

	id := rctx.URLParam("id")
	if id == "" {
		return attrs
	}
	for _, res := range routeResources {
		if strings.HasPrefix(pattern, res.prefix) {
			return append(attrs, res.field, id)
		}
	}
	return attrs
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// filterSensitiveBody masks credential fields in JSON bodies. Non-JSON bodies
// are dropped entirely when they mention a credential.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isSensitive(string(body)) {
			return filtered
		}
		return string(body)
	}

	out, err := json.Marshal(filterJSON(data))
	if err != nil {
		return filtered
	}
	return string(out)
}

func filterJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
				continue
			}
			out[key] = filterJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterJSON(item)
		}
		return out
	default:
		return v
	}
}
