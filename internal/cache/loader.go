package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/undrstnd-labs/undrstnd-go/internal/logging"
)

// Loader reads through a Store. Concurrent misses for one key share a single fill.
type Loader struct {
	store Store
	ttl   time.Duration
	sf    singleflight.Group
}

// NewLoader returns a Loader that caches fills for ttl. ttl <= 0 disables storing
// but still collapses concurrent fills.
func NewLoader(store Store, ttl time.Duration) *Loader {
	return &Loader{store: store, ttl: ttl}
}

// detachCancel returns a context that survives cancellation of parent but keeps
// its deadline and values, so one caller going away does not fail the shared fill.
func detachCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if dl, ok := parent.Deadline(); ok {
		return context.WithDeadline(ctx, dl)
	}
	return context.WithCancel(ctx)
}

// Load returns the cached value for key or calls fill and stores its result.
// hit reports whether the value came from the store. Store errors are logged and
// treated as misses.
func (l *Loader) Load(ctx context.Context, key string, fill func(ctx context.Context) ([]byte, error)) (value []byte, hit bool, err error) {
	if v, ok, gerr := l.store.Get(ctx, key); gerr == nil && ok {
		return v, true, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	ch := l.sf.DoChan(key, func() (any, error) {
		fillCtx, cancel := detachCancel(ctx)
		defer cancel()
		v, err := fill(fillCtx)
		if err != nil {
			return nil, err
		}
		if serr := l.store.Set(fillCtx, key, v, l.ttl); serr != nil {
			logging.L(ctx).Warn("cache fill not stored", zap.String("cache_key", key), zap.Error(serr))
		}
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	}
}
