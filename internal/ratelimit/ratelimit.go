// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package ratelimit provides a small in-memory fixed-window attempt
// limiter used to bound code-verification attempts per account and client.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults for code-verification endpoints.
const (
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

type window struct {
	start time.Time
	count int
}

// Limiter counts attempts per key within a fixed time window. It is safe
// for concurrent use. State is in-process only; a multi-instance deployment
// would need a shared store instead.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

// New creates a limiter allowing limit attempts per period for each key.
func New(limit int, period time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if period <= 0 {
		period = DefaultWindow
	}
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. Stale windows are swept opportunistically to bound memory.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= l.limit
}

// Reset clears the attempt count for key, e.g. after a successful
// verification.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows. Called with the lock held.
func (l *Limiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, key)
		}
	}
}
