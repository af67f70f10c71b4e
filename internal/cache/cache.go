// Package cache stores generate responses of the proxy keyed by a hash of the
// translated wire request. Store has memory and redis backends; Loader adds
// TTL population with singleflight so concurrent identical requests reach the
// upstream once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// Store is a byte cache with per-entry TTL.
type Store interface {
	// Get returns (nil, false, nil) on a clean miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl; ttl <= 0 stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key identifies one cached response.
type Key struct {
	ModelID string
	Hash    string // hex SHA-256 of the request body and forwarded headers
}

// String returns "gen:<model>:<hash>".
func (k Key) String() string {
	return fmt.Sprintf("gen:%s:%s", k.ModelID, k.Hash)
}

// KeyFor hashes the JSON encoding of req followed by headers sorted by
// lower-cased name. Streamed requests share keys with non-streamed ones since
// the stream flag is cleared before hashing.
func KeyFor(req wire.ChatRequest, headers map[string]string) (Key, error) {
	req.Stream = false
	body, err := json.Marshal(req)
	if err != nil {
		return Key{}, fmt.Errorf("cache: encode request: %w", err)
	}
	h := sha256.New()
	h.Write(body)

	names := make([]string, 0, len(headers))
	lower := make(map[string]string, len(headers))
	for k, v := range headers {
		n := strings.ToLower(k)
		names = append(names, n)
		lower[n] = v
	}
	slices.Sort(names)
	for _, n := range names {
		// NUL cannot occur in header fields, so entries cannot run together.
		fmt.Fprintf(h, "\x00%s\x00%s", n, lower[n])
	}
	return Key{ModelID: req.Model, Hash: hex.EncodeToString(h.Sum(nil))}, nil
}
