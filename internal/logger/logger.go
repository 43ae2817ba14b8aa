// Package logger sets up the application slog loggers.
//
// In dev the logs are rendered with tint (colorized, human readable), in
// staging/prod they are emitted as JSON for log aggregation.
//
// Handlers get a request-scoped logger from the request context via
// ContextRequestLogger - the request logger carries the request_id so that
// all log lines for a request can be correlated.
package logger

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

// ParseLogLevel converts a LOG_LEVEL string to a slog.Level.
// Unrecognized values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates the application logger.
//
// dev/test environments use the tint handler, everything else uses JSON.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	if environment == "dev" || environment == "test" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// logAttrs accumulates extra attributes to be included in the final request
// log line. Middleware and handlers append to it via ContextWithLogAttrs.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithRequestLogger returns a context carrying a request-scoped logger.
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, l)
}

// ContextRequestLogger returns the request-scoped logger from the context.
// Falls back to slog.Default() if the request logging middleware is not installed.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs appends attributes that the request logging middleware
// will include in the final request log line.
//
// The attribute store is installed by RequestLogging - calling this without
// the middleware is a no-op.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	store, ok := ctx.Value(logAttrsKey).(*logAttrs)
	if !ok {
		return
	}
	store.mu.Lock()
	store.attrs = append(store.attrs, attrs...)
	store.mu.Unlock()
}

// RequestLogging returns a middleware that installs a request-scoped logger
// on the context and logs one line per completed request with the method,
// path, status, duration and request_id.
//
// Must be installed after chi's RequestID middleware.
func RequestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			reqLogger := logger.With(slog.String("request_id", requestID))

			store := &logAttrs{}
			ctx := ContextWithRequestLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, logAttrsKey, store)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			store.mu.Lock()
			extra := make([]slog.Attr, len(store.attrs))
			copy(extra, store.attrs)
			store.mu.Unlock()

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			}
			attrs = append(attrs, extra...)

			reqLogger.LogAttrs(r.Context(), slog.LevelInfo, "request completed", attrs...)
		})
	}
}
