package contact

import "errors"

var (
	// ErrNotConfigured indicates the dispatcher has no destination
	// recipient. A missing recipient is a configuration error, never a
	// silent fallback to a baked-in address.
	ErrNotConfigured = errors.New("contact: destination recipient not configured")

	// ErrDispatchFailed indicates the relay rejected or never received
	// the notification. Detail goes to the log, not the caller.
	ErrDispatchFailed = errors.New("contact: failed to dispatch notification")
)
