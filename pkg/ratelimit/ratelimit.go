package ratelimit

import (
	"context"
	"time"
)

// Store decides whether the caller identified by key may proceed at now.
//
// Every call counts against the key's current window, including calls
// that end up denied, so a sustained flood does not earn itself a fresh
// window per attempt. Reaching the limit exactly still admits; only
// strictly exceeding it denies.
type Store interface {
	Admit(ctx context.Context, key string, now time.Time) (bool, error)
}
