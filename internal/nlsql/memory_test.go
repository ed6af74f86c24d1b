package nlsql

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryStore_KeepsMostRecentTen(t *testing.T) {
	now := time.Now()
	m := NewMemoryStore(10, 30*time.Minute, func() time.Time { return now })

	for i := 0; i < 15; i++ {
		m.Record("u1", Turn{Question: fmt.Sprintf("q%02d", i)})
	}

	turns := m.Read("u1")
	if len(turns) != 10 {
		t.Fatalf("len = %d, want 10", len(turns))
	}
	if turns[0].Question != "q05" || turns[9].Question != "q14" {
		t.Fatalf("wrong window: first=%s last=%s", turns[0].Question, turns[9].Question)
	}
}

func TestMemoryStore_ExpiryOnRead(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := NewMemoryStore(10, 30*time.Minute, clock)

	m.Record("u1", Turn{Question: "early"})
	if got := m.Read("u1"); len(got) != 1 {
		t.Fatalf("fresh turn missing: %d", len(got))
	}

	now = now.Add(31 * time.Minute)
	if got := m.Read("u1"); len(got) != 0 {
		t.Fatalf("expired turns survived read: %d", len(got))
	}
}

func TestMemoryStore_ExpiryOnWrite(t *testing.T) {
	now := time.Now()
	m := NewMemoryStore(10, 30*time.Minute, func() time.Time { return now })

	m.Record("u1", Turn{Question: "old"})
	now = now.Add(31 * time.Minute)
	m.Record("u1", Turn{Question: "new"})

	turns := m.Read("u1")
	if len(turns) != 1 || turns[0].Question != "new" {
		t.Fatalf("write did not evict expired turns: %+v", turns)
	}
}

func TestMemoryStore_PerUserIsolationAndClear(t *testing.T) {
	m := NewMemoryStore(10, 30*time.Minute, nil)

	m.Record("u1", Turn{Question: "a"})
	m.Record("u2", Turn{Question: "b"})

	if got := m.Read("u1"); len(got) != 1 || got[0].Question != "a" {
		t.Fatalf("u1 log wrong: %+v", got)
	}

	m.Clear("u1")
	if got := m.Read("u1"); len(got) != 0 {
		t.Fatalf("clear left turns behind: %+v", got)
	}
	if got := m.Read("u2"); len(got) != 1 {
		t.Fatalf("clear leaked across users: %+v", got)
	}
}

func TestMemoryStore_ReadReturnsCopy(t *testing.T) {
	m := NewMemoryStore(10, 30*time.Minute, nil)
	m.Record("u1", Turn{Question: "original"})

	got := m.Read("u1")
	got[0].Question = "mutated"

	if again := m.Read("u1"); again[0].Question != "original" {
		t.Fatalf("Read exposed internal slice")
	}
}
