package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}
type requestIDKey struct{}

const requestIDField = "request_id"

var (
	loggerKeyInstance    = loggerKey{}
	requestIDKeyInstance = requestIDKey{}
)

func ContextWithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKeyInstance, l)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKeyInstance, requestID)
}

func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKeyInstance).(string)
	return id, ok
}

// FromContext returns the logger stored in ctx, tagged with the request id
// when there is one. Falls back to def, then to a no-op logger.
func FromContext(ctx context.Context, def *Logger) *Logger {
	l, ok := ctx.Value(loggerKeyInstance).(*Logger)
	if !ok || l == nil {
		l = def
	}
	if l == nil {
		l = NewNop()
	}
	if id, ok := GetRequestID(ctx); ok {
		return l.With(zap.String(requestIDField, id))
	}
	return l
}
