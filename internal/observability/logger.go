package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldRoute is the field name for the matched route.
	LogFieldRoute = "route"
	// LogFieldMethod is the field name for the HTTP method.
	LogFieldMethod = "method"
	// LogFieldStatus is the field name for the response status.
	LogFieldStatus = "status"
	// LogFieldRemoteIP is the field name for the caller address.
	LogFieldRemoteIP = "remote_ip"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
)

// NewLogger returns a text logger in dev mode and a JSON logger otherwise.
func NewLogger(w io.Writer, dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// RequestContext represents the context for a single request with structured logging.
type RequestContext struct {
	RequestID string
	Method    string
	Route     string
	RemoteIP  string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a new request context with a generated request ID.
func NewRequestContext(logger *slog.Logger, method, route, remoteIP string) *RequestContext {
	return NewRequestContextWithID(logger, generateRequestID(), method, route, remoteIP)
}

// NewRequestContextWithID creates a new request context with a specific request ID.
func NewRequestContextWithID(logger *slog.Logger, requestID, method, route, remoteIP string) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestContext{
		RequestID: requestID,
		Method:    method,
		Route:     route,
		RemoteIP:  remoteIP,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// WithFields returns a new logger with additional fields.
func (r *RequestContext) WithFields(attrs ...slog.Attr) *slog.Logger {
	combined := r.baseAttrsAppended(attrs...)
	args := make([]any, 0, len(combined))
	for _, attr := range combined {
		args = append(args, attr)
	}
	return r.Logger.With(args...)
}

// Info logs an info message.
func (r *RequestContext) Info(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, r.baseAttrsAppended(attrs...)...)
}

// Debug logs a debug message.
func (r *RequestContext) Debug(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, r.baseAttrsAppended(attrs...)...)
}

// Warn logs a warning message.
func (r *RequestContext) Warn(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, r.baseAttrsAppended(attrs...)...)
}

// Error logs an error message with the error.
func (r *RequestContext) Error(msg string, err error, attrs ...slog.Attr) {
	allAttrs := append(attrs, slog.String("error", err.Error()))
	r.Logger.LogAttrs(context.Background(), slog.LevelError, msg, r.baseAttrsAppended(allAttrs...)...)
}

// Duration returns the elapsed time since the request started.
func (r *RequestContext) Duration() time.Duration {
	return time.Since(r.StartTime)
}

// DurationMs returns the elapsed time in milliseconds.
func (r *RequestContext) DurationMs() int64 {
	return r.Duration().Milliseconds()
}

func (r *RequestContext) baseAttrsAppended(attrs ...slog.Attr) []slog.Attr {
	base := []slog.Attr{
		slog.String(LogFieldRequestID, r.RequestID),
		slog.String(LogFieldMethod, r.Method),
		slog.String(LogFieldRoute, r.Route),
		slog.String(LogFieldRemoteIP, r.RemoteIP),
	}
	return append(base, attrs...)
}

// generateRequestID generates a unique request ID using full UUID.
func generateRequestID() string {
	return uuid.New().String()
}

type ctxKey struct{}

// WithRequestContext adds the request context to the context.
func WithRequestContext(ctx context.Context, reqCtx *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, reqCtx)
}

// FromContext extracts the request context from the context.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	reqCtx, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return reqCtx, ok
}

// LoggerFrom returns base annotated with the request carried by ctx.
// A nil base falls back to the default logger.
func LoggerFrom(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	reqCtx, ok := FromContext(ctx)
	if !ok {
		return base
	}
	return base.With(
		slog.String(LogFieldRequestID, reqCtx.RequestID),
		slog.String(LogFieldRoute, reqCtx.Route),
	)
}
