package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxRetryAfter = 5 * time.Minute
	maxBackoff    = 60 * time.Second
)

// doWithRetry performs do up to MaxRetries+1 times. It retries transient network
// errors and retryable statuses, honoring Retry-After. The response of the last
// attempt is returned as is, even when its status is retryable.
func (m *Model) doWithRetry(ctx context.Context, do func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	maxAttempts := m.cfg.MaxRetries + 1
	var lastErr error

	for attempt := range maxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := do(ctx)
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		m.logger.Debug("upstream attempt",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxAttempts),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)

		last := attempt == maxAttempts-1
		var wait time.Duration
		switch {
		case err != nil:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !isTransientNetError(err) {
				return nil, err
			}
			lastErr = err
		case !isRetryableStatus(status) || last:
			return resp, nil
		default:
			lastErr = fmt.Errorf("upstream status %d", status)
			wait = parseRetryAfter(resp)
			resp.Body.Close()
		}

		if last {
			break
		}
		if wait <= 0 {
			wait = computeBackoff(m.cfg.BaseBackoff, attempt)
		}
		m.logger.Debug("backing off before retry", zap.Duration("wait", wait), zap.Int("next_attempt", attempt+2))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	m.logger.Warn("upstream request exhausted all retries", zap.Int("attempts", maxAttempts), zap.Error(lastErr))
	return nil, fmt.Errorf("%w (%d attempts): %w", ErrRetriesExhausted, maxAttempts, lastErr)
}

// isTransientNetError reports whether a transport error is worth retrying.
func isTransientNetError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "dial" || opErr.Op == "read" || opErr.Op == "write") {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"connection refused", "connection reset", "broken pipe", "unexpected eof"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date. Zero means absent.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(v); err == nil {
		d = time.Until(t)
	}
	if d <= 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}

// computeBackoff returns exponential backoff with full jitter: a random value in [0, base*2^attempt).
func computeBackoff(base time.Duration, attempt int) time.Duration {
	attempt = min(attempt, 10)
	ceiling := min(base<<attempt, maxBackoff)
	if ceiling <= 0 {
		return 0
	}
	return rand.N(ceiling)
}
