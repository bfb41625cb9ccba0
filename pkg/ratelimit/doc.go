// Package ratelimit provides per-key admission control for inbound
// requests using a fixed-window counter.
//
// The window is fixed-with-reset, not a true sliding window: a burst
// spanning a window boundary can admit up to twice the configured limit
// in a short span. This is an accepted approximation; callers that need
// exact pacing should front the service with an external limiter.
//
// Two Store implementations are provided: an in-process Memory store for
// single-instance deployments, and a Redis-backed store for deployments
// where the counter must be shared across instances.
//
//	store := ratelimit.NewMemory(5, time.Minute)
//	ok, _ := store.Admit(ctx, clientIP, time.Now())
//	if !ok {
//	    // reject with 429
//	}
package ratelimit
