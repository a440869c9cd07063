// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger = NewLogger(os.Stderr, "development", "info")

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the correlation id of one user action.
const CorrelationID LogContextKey = "correlation_id"

// NewLogger builds a logger writing text in development and JSON otherwise.
func NewLogger(w io.Writer, env, level string) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(&ctxHandler{handler})}
}

// SetGlobal replaces GlobalLogger and the slog default.
func SetGlobal(l *Logger) {
	GlobalLogger = l
	slog.SetDefault(l.Logger)
}

// ParseLevel maps a level name onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ctxHandler adds the correlation id from the context to each record.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := ExtractCorrelationID(ctx); id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// EnsureCorrelationID returns ctx with a correlation id, generating one if absent.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if ExtractCorrelationID(ctx) != "" {
		return ctx
	}
	return WithCorrelationID(ctx, GenerateCorrelationID())
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// ClientLogger provides structured logging for one client-side component.
type ClientLogger struct {
	component string
	logger    *Logger
}

// NewClientLogger creates a ClientLogger for the named component. A nil logger
// falls back to GlobalLogger at call time.
func NewClientLogger(component string, logger *Logger) *ClientLogger {
	return &ClientLogger{component: component, logger: logger}
}

func (l *ClientLogger) base() *Logger {
	if l.logger != nil {
		return l.logger
	}
	return GlobalLogger
}

// LogOperation logs a state-changing operation on the client.
func (l *ClientLogger) LogOperation(ctx context.Context, operation string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("component", l.component),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.base().InfoContext(ctx, "client operation", attrs...)
}

// LogRequest logs a completed remote API call at debug level.
func (l *ClientLogger) LogRequest(ctx context.Context, method, path string, status int, fields map[string]interface{}) {
	attrs := []any{
		slog.String("component", l.component),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.base().DebugContext(ctx, "api request", attrs...)
}

// LogWarn logs a recoverable problem.
func (l *ClientLogger) LogWarn(ctx context.Context, msg string, err error) {
	attrs := []any{slog.String("component", l.component)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.base().WarnContext(ctx, msg, attrs...)
}

// LogError logs a failed operation.
func (l *ClientLogger) LogError(ctx context.Context, err error, operation string) {
	l.base().ErrorContext(ctx, "client operation failed",
		slog.String("component", l.component),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
