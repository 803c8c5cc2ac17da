package logutils

import (
	"context"

	"go.uber.org/zap"
)

type contextKeyLogger struct{}

func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger{}, l)
}

// LoggerFromContext returns the logger attached to ctx, falling back to the
// global one.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(contextKeyLogger{}).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}
