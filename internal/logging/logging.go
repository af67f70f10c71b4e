// Package logging builds zap loggers and carries request-scoped loggers in contexts.
package logging

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey int

const loggerKey ctxKey = iota

var (
	defaultLogger     *zap.Logger
	defaultLoggerOnce sync.Once
)

// Options selects the logger flavour. Empty fields fall back to ENV and LOG_LEVEL.
type Options struct {
	Env   string // "dev" or "development" selects the console encoder
	Level string // debug, info, warn, error
}

// New builds a logger. Production JSON unless Env is dev/development.
func New(opts Options) (*zap.Logger, error) {
	if opts.Env == "" {
		opts.Env = os.Getenv("ENV")
	}
	if opts.Level == "" {
		opts.Level = os.Getenv("LOG_LEVEL")
	}

	var config zap.Config
	if opts.Env == "dev" || opts.Env == "development" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	if opts.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}
	return config.Build()
}

// Default returns a process-wide logger built from the environment.
// It falls back to a no-op logger when the environment is invalid.
func Default() *zap.Logger {
	defaultLoggerOnce.Do(func() {
		l, err := New(Options{})
		if err != nil {
			l = zap.NewNop()
		}
		defaultLogger = l
	})
	return defaultLogger
}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger in ctx, or Default.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// L is shorthand for FromContext.
func L(ctx context.Context) *zap.Logger { return FromContext(ctx) }

// WithFields adds fields to the logger in ctx.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(fields...))
}
