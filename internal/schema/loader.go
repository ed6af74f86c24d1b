package schema

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is how long a snapshot is served before re-introspection.
const DefaultTTL = time.Hour

// Introspector reads table/column/foreign-key metadata from the relational
// store. Implemented by the repo package for SQLite.
type Introspector interface {
	Introspect(ctx context.Context) ([]Table, error)
}

// LoadError wraps an introspection failure. Callers must not proceed with a
// stale or empty snapshot when Load returns one of these.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("schema load: %v", e.Err) }

// Unwrap exposes the cause for errors.Is/As.
func (e *LoadError) Unwrap() error { return e.Err }

// Loader caches an introspected Snapshot with a time-based expiry. The clock
// is injectable for tests. Safe for concurrent use: a refresh builds the new
// snapshot outside the critical section and installs it with a single swap,
// so readers never observe a partially-built schema. Concurrent expiry may
// introspect twice; the last completed load wins.
type Loader struct {
	intro Introspector
	ttl   time.Duration
	clock func() time.Time

	mu     sync.Mutex
	snap   *Snapshot
	expiry time.Time
}

// NewLoader constructs a Loader over the given introspector. A non-positive
// ttl falls back to DefaultTTL; a nil clock falls back to time.Now.
func NewLoader(intro Introspector, ttl time.Duration, clock func() time.Time) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Loader{intro: intro, ttl: ttl, clock: clock}
}

// Load returns the cached snapshot while it is fresh, otherwise re-introspects
// and replaces it. On introspection failure the previous snapshot is NOT
// returned; the error propagates so callers never answer from stale metadata.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	now := l.clock()

	l.mu.Lock()
	if l.snap != nil && now.Before(l.expiry) {
		snap := l.snap
		l.mu.Unlock()
		return snap, nil
	}
	l.mu.Unlock()

	tables, err := l.intro.Introspect(ctx)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	if len(tables) == 0 {
		return nil, &LoadError{Err: fmt.Errorf("store reported no tables")}
	}
	snap := &Snapshot{Tables: normalize(tables)}

	l.mu.Lock()
	l.snap = snap
	l.expiry = now.Add(l.ttl)
	l.mu.Unlock()
	return snap, nil
}

// Invalidate drops the cached snapshot so the next Load re-introspects.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.snap = nil
	l.expiry = time.Time{}
	l.mu.Unlock()
}
