package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
)

// LiveState is the current game as persisted between restarts. Record is nil
// until the first game is drawn.
type LiveState struct {
	Record          *Record           `json:"record"`
	Letters         []string          `json:"letters,omitempty"` // board order
	PlannedLang     string            `json:"plannedLang"`
	ChangesToSave   bool              `json:"changesToSave"`
	WinAcknowledged bool              `json:"winAcknowledged"`
	Finders         map[string]string `json:"finders,omitempty"` // word -> player id
}

// Validate checks the live record and that the board order is a permutation
// of its sorted letters.
func (s LiveState) Validate() error {
	if s.Record == nil {
		if len(s.Letters) > 0 {
			return errors.New("letters without a record")
		}
		return nil
	}
	if err := s.Record.Validate(); err != nil {
		return err
	}
	if len(s.Letters) == 0 {
		return nil
	}
	a := append([]string(nil), s.Letters...)
	b := append([]string(nil), s.Record.LettersSorted...)
	sort.Strings(a)
	sort.Strings(b)
	if !equalStrings(a, b) {
		return errors.New("board letters do not match the record")
	}
	return nil
}

// LiveStore persists the live game.
type LiveStore interface {
	// Load returns the saved state, or nil when nothing was saved yet.
	Load(ctx context.Context) (*LiveState, error)
	Save(ctx context.Context, s LiveState) error
}

// LiveFile is a LiveStore kept as a single JSON file.
type LiveFile struct {
	path string
	mu   sync.Mutex
}

// NewLiveFile returns a LiveStore backed by path.
func NewLiveFile(path string) *LiveFile {
	return &LiveFile{path: path}
}

func (f *LiveFile) Load(ctx context.Context) (*LiveState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read live game: %w", err)
	}
	return decodeLive(f.path, data)
}

func (f *LiveFile) Save(ctx context.Context, s LiveState) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save live game: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return writeFileAtomic(f.path, data)
}

func decodeLive(source string, data []byte) (*LiveState, error) {
	var probe struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &MalformedError{Source: source, Reason: err.Error()}
	}
	if len(probe.Record) > 0 && string(probe.Record) != "null" {
		if _, err := decodeRecord(probe.Record); err != nil {
			return nil, &MalformedError{Source: source, Reason: "record: " + err.Error()}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s LiveState
	if err := dec.Decode(&s); err != nil {
		return nil, &MalformedError{Source: source, Reason: err.Error()}
	}
	if s.Record != nil && s.Record.FoundWordsSorted == nil {
		s.Record.FoundWordsSorted = []string{}
	}
	if err := s.Validate(); err != nil {
		return nil, &MalformedError{Source: source, Reason: err.Error()}
	}
	return &s, nil
}

type memoryLive struct {
	mu    sync.Mutex
	state *LiveState
}

// NewMemoryLive returns an in-memory LiveStore.
func NewMemoryLive() LiveStore {
	return &memoryLive{}
}

func (m *memoryLive) Load(ctx context.Context) (*LiveState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	s := cloneLive(*m.state)
	return &s, nil
}

func (m *memoryLive) Save(ctx context.Context, s LiveState) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save live game: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cloneLive(s)
	m.state = &c
	return nil
}

func cloneLive(s LiveState) LiveState {
	if s.Record != nil {
		r := clone(*s.Record)
		s.Record = &r
	}
	s.Letters = append([]string(nil), s.Letters...)
	if s.Finders != nil {
		f := make(map[string]string, len(s.Finders))
		for k, v := range s.Finders {
			f[k] = v
		}
		s.Finders = f
	}
	return s
}
