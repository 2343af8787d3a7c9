// internal/archive/memory.go
//
// In-memory implementation of the archive Store interface.
// Used by tests and by ephemeral runs where durability is not required.
//
// Characteristics:
//   - Records kept in a slice, position i+1 at index i.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Records are copied on the way in and out so callers cannot mutate history.
//   - State is lost when the process restarts.

package archive

import (
	"context"
	"sync"
)

// memory is an in-memory slice-based Store implementation.
type memory struct {
	mu      sync.RWMutex // guards records
	records []Record
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *memory) Append(ctx context.Context, r Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, clone(r))
	return len(m.records), nil
}

func (m *memory) OverwriteAt(ctx context.Context, index int, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 1 || index > len(m.records) {
		return ErrNotFound
	}
	m.records[index-1] = clone(r)
	return nil
}

func (m *memory) ReadAt(ctx context.Context, index int) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 1 || index > len(m.records) {
		return Record{}, ErrNotFound
	}
	return clone(m.records[index-1]), nil
}

func (m *memory) ReadLast(ctx context.Context) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.records) == 0 {
		return Record{}, ErrEmpty
	}
	return clone(m.records[len(m.records)-1]), nil
}

func clone(r Record) Record {
	r.LettersSorted = append([]string(nil), r.LettersSorted...)
	r.FoundWordsSorted = append([]string{}, r.FoundWordsSorted...)
	return r
}
