package nlsql

import (
	"sync"
	"time"
)

// Turn is one remembered question/answer exchange. ResponseSummary is
// truncated before storage; SQL is empty when generation never produced a
// valid statement.
type Turn struct {
	Timestamp       time.Time
	Question        string
	ResponseSummary string
	SQL             string
	Succeeded       bool
	CorrelationID   string
}

// MemoryStore is the bounded, per-user, time-expiring conversation log. Both
// bounds (max turns, expiry) are enforced lazily on every read and write, so
// the two paths always agree on what is visible. Logs are process-local and
// never persisted.
type MemoryStore struct {
	mu       sync.Mutex
	logs     map[string][]Turn
	maxTurns int
	ttl      time.Duration
	clock    func() time.Time
}

// NewMemoryStore builds a store. A nil clock defaults to time.Now; bounds
// fall back to 10 turns and 30 minutes when non-positive.
func NewMemoryStore(maxTurns int, ttl time.Duration, clock func() time.Time) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		logs:     make(map[string][]Turn),
		maxTurns: maxTurns,
		ttl:      ttl,
		clock:    clock,
	}
}

// Record appends a turn for userID and evicts expired or overflowing
// entries.
func (m *MemoryStore) Record(userID string, turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if turn.Timestamp.IsZero() {
		turn.Timestamp = m.clock()
	}
	m.logs[userID] = m.evict(append(m.logs[userID], turn))
}

// Read returns the user's non-expired turns, oldest first. Eviction runs
// here too, so a log left untouched past the expiry window reads back empty.
func (m *MemoryStore) Read(userID string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.evict(m.logs[userID])
	if len(kept) == 0 {
		delete(m.logs, userID)
		return nil
	}
	m.logs[userID] = kept

	out := make([]Turn, len(kept))
	copy(out, kept)
	return out
}

// Clear removes the user's log entirely.
func (m *MemoryStore) Clear(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, userID)
}

// evict drops expired turns, then trims to the most recent maxTurns.
// Callers hold the lock.
func (m *MemoryStore) evict(turns []Turn) []Turn {
	cutoff := m.clock().Add(-m.ttl)

	kept := turns[:0]
	for _, t := range turns {
		if t.Timestamp.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) > m.maxTurns {
		kept = kept[len(kept)-m.maxTurns:]
	}
	return kept
}
