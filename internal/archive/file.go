// internal/archive/file.go
//
// JSON file implementation of the archive Store.
//
// The whole archive is one JSON array. Every write reads the array, mutates
// it in memory and writes it back through a temp file + rename, so readers in
// this or another process only ever see a complete file. Archive sizes are
// bounded by real play counts (low thousands), so whole-file rewrites are fine.

package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a Store persisted as a JSON array file.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path is the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return decodeRecords(s.path, data)
}

func (s *FileStore) store(recs []Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// All returns every archived record in order.
func (s *FileStore) All(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *FileStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, err := s.load()
	return len(recs), err
}

func (s *FileStore) Append(ctx context.Context, r Record) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return 0, err
	}
	recs = append(recs, r)
	if err := s.store(recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *FileStore) OverwriteAt(ctx context.Context, index int, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return err
	}
	if index < 1 || index > len(recs) {
		return ErrNotFound
	}
	recs[index-1] = r
	return s.store(recs)
}

func (s *FileStore) ReadAt(ctx context.Context, index int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, err := s.load()
	if err != nil {
		return Record{}, err
	}
	if index < 1 || index > len(recs) {
		return Record{}, ErrNotFound
	}
	return recs[index-1], nil
}

func (s *FileStore) ReadLast(ctx context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, err := s.load()
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrEmpty
	}
	return recs[len(recs)-1], nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over
// path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
