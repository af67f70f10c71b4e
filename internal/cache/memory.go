package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Call Close to stop its cleanup goroutine.
type MemoryStore struct {
	mu          sync.RWMutex
	items       map[string]memoryEntry
	stopCleanup chan struct{}
	cleanupOnce sync.Once
	interval    time.Duration
}

// DefaultCleanupInterval is the sweep period of a MemoryStore built without one.
const DefaultCleanupInterval = 5 * time.Minute

// NewMemoryStore starts a store that drops expired entries every cleanupInterval
// (DefaultCleanupInterval when <= 0). Expired entries are never returned in between.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	c := &MemoryStore{
		items:       make(map[string]memoryEntry),
		stopCleanup: make(chan struct{}),
		interval:    cleanupInterval,
	}
	go c.cleanupExpired()
	return c
}

// Get implements Store.
func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		if e, exists := c.items[key]; exists && now.After(e.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set implements Store. The value is copied.
func (c *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl <= 0 {
		delete(c.items, key)
		return nil
	}
	c.items[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, v := range c.items {
				if now.After(v.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Len returns the number of stored entries, expired ones included until cleanup.
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *MemoryStore) Close() error {
	c.cleanupOnce.Do(func() { close(c.stopCleanup) })
	return nil
}
