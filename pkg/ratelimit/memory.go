package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry tracks admissions for a single key within the current window.
type entry struct {
	windowStart time.Time
	count       int
}

// Memory is an in-process fixed-window admission store.
//
// Entries are created on first sight of a key and reset in place once
// their window has elapsed. Without a cleanup interval they live for the
// life of the process; cardinality is bounded by distinct keys seen, an
// accepted memory-growth tradeoff for a single-instance deployment.
type Memory struct {
	entries map[string]*entry
	done    chan struct{}
	window  time.Duration
	limit   int
	mu      sync.Mutex
	closed  bool
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithCleanupInterval starts a janitor goroutine that periodically drops
// entries whose window has fully elapsed. Eviction is semantics-preserving:
// an expired entry would be reset on its next Admit anyway. Call Close to
// stop the janitor.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(m *Memory) {
		if d > 0 {
			go m.janitor(d)
		}
	}
}

// NewMemory creates an in-memory store admitting up to limit calls per key
// per window.
func NewMemory(limit int, window time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
		window:  window,
		limit:   limit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Admit implements Store. It never returns an error.
func (m *Memory) Admit(_ context.Context, key string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{windowStart: now}
		m.entries[key] = e
	}

	if now.Sub(e.windowStart) > m.window {
		e.count = 0
		e.windowStart = now
	}

	e.count++
	return e.count <= m.limit, nil
}

// Close stops the janitor goroutine, if one was started.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
}

func (m *Memory) janitor(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-t.C:
			m.cleanup(now)
		}
	}
}

func (m *Memory) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if now.Sub(e.windowStart) > m.window {
			delete(m.entries, key)
		}
	}
}
