package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go/internal/logging"
)

// Lookup results reported to a ResultCounter.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// ResultCounter counts lookups. metrics.Metrics implements it.
type ResultCounter interface {
	CacheResult(result string)
}

// LoggingStore logs every operation with the logger from the context and counts lookups.
type LoggingStore struct {
	inner   Store
	counter ResultCounter
}

// NewLoggingStore wraps inner. counter may be nil.
func NewLoggingStore(inner Store, counter ResultCounter) *LoggingStore {
	return &LoggingStore{inner: inner, counter: counter}
}

// Get implements Store.
func (c *LoggingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)

	result := ResultMiss
	switch {
	case err != nil:
		result = ResultError
	case ok:
		result = ResultHit
	}
	if c.counter != nil {
		c.counter.CacheResult(result)
	}

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.String("cache_result", result),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		logging.L(ctx).Error("cache_get", append(fields, zap.Error(err))...)
	} else {
		logging.L(ctx).Debug("cache_get", fields...)
	}
	return value, ok, err
}

// Set implements Store.
func (c *LoggingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		logging.L(ctx).Error("cache_set", append(fields, zap.Error(err))...)
	} else {
		logging.L(ctx).Debug("cache_set", fields...)
	}
	return err
}
