// Package players keeps the statistical part of a player record: the words
// found and hints used this round, and the all-time counters. Identity fields
// (display name) belong to the chat platform; only the role is mirrored here
// because the beginner award reads it.
package players

import (
	"context"
	"sync"
)

// RoleBeginner marks players eligible for the best-beginner award.
const RoleBeginner = "Beginner"

// Stat is one player's counters.
type Stat struct {
	ID              string   `json:"id"`
	Role            string   `json:"role"`
	FoundWords      []string `json:"foundWords"` // this round
	UsedHints       []string `json:"usedHints"`  // this round
	AllTimeFound    int      `json:"allTimeFound"`
	AllTimeApproved int      `json:"allTimeApproved"`
}

// SolvedHints counts words the player both asked a hint for and found.
func (s Stat) SolvedHints() int {
	hints := make(map[string]struct{}, len(s.UsedHints))
	for _, h := range s.UsedHints {
		hints[h] = struct{}{}
	}
	n := 0
	for _, w := range s.FoundWords {
		if _, ok := hints[w]; ok {
			n++
		}
	}
	return n
}

// Patch is an incremental change to a Stat. Empty words and zero deltas are
// no-ops; all-time counters never drop below zero.
type Patch struct {
	AddFound        string
	DropFound       string
	AddHint         string
	AllTimeFound    int
	AllTimeApproved int
}

func (p Patch) apply(s *Stat) {
	if p.AddFound != "" && !contains(s.FoundWords, p.AddFound) {
		s.FoundWords = append(s.FoundWords, p.AddFound)
	}
	if p.DropFound != "" {
		s.FoundWords = remove(s.FoundWords, p.DropFound)
	}
	if p.AddHint != "" && !contains(s.UsedHints, p.AddHint) {
		s.UsedHints = append(s.UsedHints, p.AddHint)
	}
	s.AllTimeFound = max(0, s.AllTimeFound+p.AllTimeFound)
	s.AllTimeApproved = max(0, s.AllTimeApproved+p.AllTimeApproved)
}

// Store persists player stats keyed by the external player identifier.
type Store interface {
	// Get returns the player's stats; unknown players read as zero stats.
	Get(ctx context.Context, id string) (Stat, error)
	// Upsert applies p and returns the updated stats.
	Upsert(ctx context.Context, id string, p Patch) (Stat, error)
	// ResetRound clears the round counters of one player.
	ResetRound(ctx context.Context, id string) error
	// ResetAllRounds clears the round counters of every player.
	ResetAllRounds(ctx context.Context) error
	// Snapshot returns every known player.
	Snapshot(ctx context.Context) (map[string]Stat, error)
	// SetRole mirrors the role owned by the identity service.
	SetRole(ctx context.Context, id, role string) error
}

func contains(list []string, w string) bool {
	for _, x := range list {
		if x == w {
			return true
		}
	}
	return false
}

func remove(list []string, w string) []string {
	out := list[:0]
	for _, x := range list {
		if x != w {
			out = append(out, x)
		}
	}
	return out
}

func zero(id string) Stat {
	return Stat{ID: id, FoundWords: []string{}, UsedHints: []string{}}
}

// memory is an in-memory Store.
type memory struct {
	mu    sync.RWMutex
	stats map[string]Stat
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{stats: make(map[string]Stat)}
}

func (m *memory) Get(ctx context.Context, id string) (Stat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.stats[id]; ok {
		return cloneStat(s), nil
	}
	return zero(id), nil
}

func (m *memory) Upsert(ctx context.Context, id string, p Patch) (Stat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[id]
	if !ok {
		s = zero(id)
	}
	s = cloneStat(s)
	p.apply(&s)
	m.stats[id] = s
	return cloneStat(s), nil
}

func (m *memory) ResetRound(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stats[id]; ok {
		s.FoundWords, s.UsedHints = []string{}, []string{}
		m.stats[id] = s
	}
	return nil
}

func (m *memory) ResetAllRounds(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.stats {
		s.FoundWords, s.UsedHints = []string{}, []string{}
		m.stats[id] = s
	}
	return nil
}

func (m *memory) Snapshot(ctx context.Context) (map[string]Stat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Stat, len(m.stats))
	for id, s := range m.stats {
		out[id] = cloneStat(s)
	}
	return out, nil
}

func (m *memory) SetRole(ctx context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[id]
	if !ok {
		s = zero(id)
	}
	s.Role = role
	m.stats[id] = s
	return nil
}

func cloneStat(s Stat) Stat {
	s.FoundWords = append([]string{}, s.FoundWords...)
	s.UsedHints = append([]string{}, s.UsedHints...)
	return s
}
