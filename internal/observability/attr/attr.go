package attr

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type correlationIDKey struct{}

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// ExtractCorrelationID returns a slog attribute for the correlation ID carried
// by ctx. Returns an empty group attribute when no correlation ID is present so
// callers can pass it unconditionally.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return slog.String("correlation_id", id)
	}
	return slog.Group("")
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Float64(key string, value float64) slog.Attr {
	return slog.Float64(key, value)
}

func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

func Time(key string, value time.Time) slog.Attr {
	return slog.Time(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// Stringer logs any fmt.Stringer under the given key. Used for typed IDs
// (round IDs, user IDs) without the call site spelling out .String().
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}
