package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultQuota is the number of requests allowed per window.
	// Microsoft Graph permits roughly 10000 requests per 10 minutes per app.
	DefaultQuota = 10000

	// DefaultWindow is the sliding window the quota applies to.
	DefaultWindow = 600 * time.Second

	// DefaultMaxRetries is how many attempts ExecuteWithRetry makes before
	// surfacing the last throttle error.
	DefaultMaxRetries = 3

	// waitEpsilon is added to computed waits so the oldest timestamp is
	// strictly outside the window when the limiter rechecks.
	waitEpsilon = 100 * time.Millisecond
)

// ThrottleError reports an upstream "too many requests" response. Clients
// construct it from HTTP 429 responses; ExecuteWithRetry retries on it and
// returns the last one verbatim when retries are exhausted.
type ThrottleError struct {
	Status     int
	RetryAfter time.Duration // zero when the server sent no Retry-After
	Message    string
}

// Error implements the error interface
func (e *ThrottleError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("too many requests (status %d, retry after %s): %s", e.Status, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("too many requests (status %d): %s", e.Status, e.Message)
}

// ParseRetryAfter reads a Retry-After header value in its delta-seconds
// form. The HTTP-date form and garbage both yield zero, leaving the caller
// to its exponential backoff.
func ParseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// RetryAfterFromResponse builds a *ThrottleError from a 429 response.
// It returns nil for any other status.
func RetryAfterFromResponse(resp *http.Response, message string) *ThrottleError {
	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	return &ThrottleError{
		Status:     resp.StatusCode,
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
		Message:    message,
	}
}

// Limiter is a sliding-window rate limiter shared by all concurrent callers.
// It keeps the timestamps of requests admitted within the current window;
// when the quota is reached, Acquire sleeps until the oldest timestamp falls
// out of the window and rechecks in a loop.
type Limiter struct {
	quota  int
	window time.Duration

	mu       sync.Mutex
	requests []time.Time

	maxRetries int
	logger     *slog.Logger

	// onWait is invoked with the duration of every sleep the limiter takes,
	// both window waits and retry backoffs. Used for metrics.
	onWait func(time.Duration)

	// onThrottle is invoked once per throttled attempt seen by
	// ExecuteWithRetry. Used for metrics.
	onThrottle func()
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithMaxRetries overrides the attempt budget of ExecuteWithRetry.
func WithMaxRetries(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxRetries = n
		}
	}
}

// WithLogger replaces the logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

// WithWaitObserver registers a callback invoked with every sleep duration,
// letting callers record wait metrics without coupling the limiter to them.
func WithWaitObserver(f func(time.Duration)) Option {
	return func(l *Limiter) {
		l.onWait = f
	}
}

// WithThrottleObserver registers a callback invoked for every throttled
// attempt ExecuteWithRetry sees.
func WithThrottleObserver(f func()) Option {
	return func(l *Limiter) {
		l.onThrottle = f
	}
}

// NewLimiter creates a sliding-window limiter admitting quota requests per
// window. Non-positive arguments select the defaults.
func NewLimiter(quota int, window time.Duration, opts ...Option) *Limiter {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		quota:      quota,
		window:     window,
		maxRetries: DefaultMaxRetries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire blocks until the caller may issue a request, or until ctx is done.
// Admission is recorded immediately, so concurrent callers see a consistent
// window total.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()

		// Drop timestamps that have left the window
		kept := l.requests[:0]
		for _, at := range l.requests {
			if now.Sub(at) < l.window {
				kept = append(kept, at)
			}
		}
		l.requests = kept

		if len(l.requests) < l.quota {
			l.requests = append(l.requests, now)
			l.mu.Unlock()
			return nil
		}

		// Wait until the oldest admitted request leaves the window
		wait := l.window - now.Sub(l.requests[0]) + waitEpsilon
		l.mu.Unlock()

		l.logger.Debug("rate limit window full, waiting",
			"wait", wait,
			"quota", l.quota,
			"window", l.window,
		)
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// ExecuteWithRetry runs op under the rate limit, retrying on throttle
// responses. The limiter is acquired before every attempt. Throttled
// attempts back off by the server's Retry-After when present, otherwise by
// 2^attempt seconds. Any non-throttle error propagates immediately; once
// attempts are exhausted the last throttle error is returned as is.
func (l *Limiter) ExecuteWithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var lastThrottle *ThrottleError

	for attempt := 0; attempt < l.maxRetries; attempt++ {
		if err := l.Acquire(ctx); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		var throttle *ThrottleError
		if !errors.As(err, &throttle) {
			return err
		}
		lastThrottle = throttle
		if l.onThrottle != nil {
			l.onThrottle()
		}

		if attempt == l.maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if throttle.RetryAfter > 0 {
			backoff = throttle.RetryAfter
		}

		l.logger.Debug("throttled, backing off",
			"attempt", attempt+1,
			"backoff", backoff,
			"status", throttle.Status,
		)
		if err := l.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	return lastThrottle
}

// sleep waits for d, honoring context cancellation, and reports the wait to
// the observer.
func (l *Limiter) sleep(ctx context.Context, d time.Duration) error {
	if l.onWait != nil {
		l.onWait(d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
