// Package logger builds the process-wide zap loggers.
//
// The level and encoding are read from LOG_LEVEL and LOG_ENCODING the first
// time a logger is requested.
package logger

import (
	"context"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	Level    string `env:"LEVEL" envDefault:"info"`
	Encoding string `env:"ENCODING" envDefault:"json"`
}

var (
	baseOnce sync.Once
	base     *zap.Logger
	baseErr  error
)

func build() (*zap.Logger, error) {
	var opts options
	if err := env.ParseWithOptions(&opts, env.Options{Prefix: "LOG_"}); err != nil {
		return nil, fmt.Errorf("parse log options: %w", err)
	}

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	conf := zap.NewProductionConfig()
	conf.Level = zap.NewAtomicLevelAt(level)
	conf.Encoding = opts.Encoding
	conf.EncoderConfig.TimeKey = "ts"
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	conf.DisableStacktrace = level > zapcore.DebugLevel
	return conf.Build()
}

func root() (*zap.Logger, error) {
	baseOnce.Do(func() {
		base, baseErr = build()
	})
	return base, baseErr
}

// Named returns a sugared logger scoped to name.
func Named(name string) (*zap.SugaredLogger, error) {
	l, err := root()
	if err != nil {
		return nil, err
	}
	return l.Named(name).Sugar(), nil
}

func MustNamed(name string) *zap.SugaredLogger {
	l, err := Named(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Replace swaps the root logger, mostly for tests.
func Replace(l *zap.Logger) {
	baseOnce.Do(func() {})
	base, baseErr = l, nil
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
