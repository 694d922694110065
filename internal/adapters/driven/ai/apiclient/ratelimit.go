package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the proactive throttle for hosted providers, in requests per second.
	DefaultRate = 5.0

	// DefaultBurst is how many requests may go out back to back.
	DefaultBurst = 5

	// MaxRetryAfter caps the pause a provider can ask for.
	MaxRetryAfter = 30 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	defaultRetryAfter = time.Second
)

// RateLimiter throttles requests with a token bucket and pauses every
// request after the provider answers 429.
type RateLimiter struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	resumeAt time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(rps), burst),
		now:    time.Now,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	pause := r.resumeAt.Sub(r.now())
	r.mu.Unlock()

	if pause <= 0 {
		return nil
	}
	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff records a rate-limited response and returns the pause it imposes.
func (r *RateLimiter) Backoff(resp *http.Response) time.Duration {
	pause := retryAfter(resp.Header.Get(HeaderRetryAfter), r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := r.now().Add(pause); until.After(r.resumeAt) {
		r.resumeAt = until
	}
	return pause
}

// retryAfter parses a Retry-After value relative to now.
func retryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return defaultRetryAfter
	}

	var pause time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		pause = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		pause = at.Sub(now)
	} else {
		return defaultRetryAfter
	}

	return min(max(pause, 0), MaxRetryAfter)
}
