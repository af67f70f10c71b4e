package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend         string
	TTL             time.Duration
	CleanupInterval time.Duration // memory sweep period; zero means DefaultCleanupInterval
	Prefix          string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
}

// New builds the configured store. The returned close func releases the backend.
// BackendNone returns a nil Store.
func New(cfg Config) (Store, func() error, error) {
	switch cfg.Backend {
	case BackendNone:
		return nil, func() error { return nil }, nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Password: cfg.RedisPass})
		return NewRedisStore(client, cfg.Prefix), client.Close, nil
	case BackendMemory, "":
		s := NewMemoryStore(cfg.CleanupInterval)
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
