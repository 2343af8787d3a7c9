// Package community persists words contributed by players, one plain-text
// file per language under the community directory.
package community

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gosimple/slug"
)

// Store is the community wordlist.
type Store interface {
	// LoadAll returns every contributed word of lang, in insertion order.
	LoadAll(ctx context.Context, lang string) ([]string, error)
	// Append adds word to lang's list.
	Append(ctx context.Context, lang, word string) error
}

// FileStore keeps <dir>/<slug(lang)>.txt files, one word per line.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir; the directory is created on
// first append.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(lang string) string {
	return filepath.Join(s.dir, slug.Make(lang)+".txt")
}

func (s *FileStore) LoadAll(ctx context.Context, lang string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path(lang))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open community list %s: %w", lang, err)
	}
	defer f.Close()

	out := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func (s *FileStore) Append(ctx context.Context, lang, word string) error {
	word = strings.TrimSpace(word)
	if word == "" || strings.ContainsAny(word, "\r\n") {
		return fmt.Errorf("community: invalid word %q", word)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path(lang), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open community list %s: %w", lang, err)
	}
	if _, err := f.WriteString(word + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append community word: %w", err)
	}
	return f.Close()
}

type memory struct {
	mu    sync.Mutex
	words map[string][]string
}

// NewMemoryStore returns an in-memory Store.
func NewMemoryStore() Store {
	return &memory{words: map[string][]string{}}
}

func (m *memory) LoadAll(ctx context.Context, lang string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.words[lang]...), nil
}

func (m *memory) Append(ctx context.Context, lang, word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[lang] = append(m.words[lang], word)
	return nil
}
