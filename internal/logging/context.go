package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	synthesisIDKey contextKey = iota
	viewIDKey
	correlationIDKey
)

// WithSynthesisID tags ctx with the synthesis under view.
func WithSynthesisID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, synthesisIDKey, id)
}

// WithViewID tags ctx with a viewer session id.
func WithViewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, viewIDKey, id)
}

// WithCorrelationID tags ctx with a request correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the request correlation id stored in ctx, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	return stringValue(ctx, correlationIDKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringValue(ctx, synthesisIDKey); ok {
		fields = append(fields, slog.String(FieldSynthesisID, id))
	}
	if id, ok := stringValue(ctx, viewIDKey); ok {
		fields = append(fields, slog.String(FieldViewID, id))
	}
	if id, ok := stringValue(ctx, correlationIDKey); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
