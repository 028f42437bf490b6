// Package log logs through the root zap logger, attaching the request id
// carried by the context.
package log

import (
	"context"

	"github.com/prairiegroup/storefront/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func from(ctx context.Context) *zap.SugaredLogger {
	l := logger.MustNamed("ctx")
	if ctx == nil {
		return l
	}
	if id := logger.RequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

func Debugw(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Debugw(msg, keysAndValues...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Infow(msg, keysAndValues...)
}

func Warnw(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Warnw(msg, keysAndValues...)
}

func Errorw(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Errorw(msg, keysAndValues...)
}

func Logw(ctx context.Context, level zapcore.Level, msg string, keysAndValues ...any) {
	from(ctx).Logw(level, msg, keysAndValues...)
}

func Infof(ctx context.Context, template string, args ...any) {
	from(ctx).Infof(template, args...)
}

func Warnf(ctx context.Context, template string, args ...any) {
	from(ctx).Warnf(template, args...)
}

func Errorf(ctx context.Context, template string, args ...any) {
	from(ctx).Errorf(template, args...)
}

func Fatal(args ...any) {
	logger.MustNamed("main").Fatal(args...)
}
