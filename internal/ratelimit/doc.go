// Package ratelimit provides the sliding-window rate limiter used for
// Microsoft Graph calls.
//
// The limiter tracks the timestamps of admitted requests over a trailing
// window. Acquire admits a request when the window has room and otherwise
// sleeps until the oldest admitted timestamp expires, looping until a slot
// opens. ExecuteWithRetry layers retry-on-throttle semantics on top: each
// attempt re-acquires the limiter, HTTP 429 responses back off by the
// server's Retry-After hint (or exponentially without one), and any other
// failure propagates untouched.
//
// A single Limiter is shared by all concurrent tool invocations so the
// window reflects the process-wide request total.
package ratelimit
