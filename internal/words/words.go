// internal/words/words.go
//
// Static wordlist management for the solution engine.
//
// Responsibilities:
//   - Load a language's wordlist from the data directory, or fall back to the
//     embedded default shipped in assets.
//   - Normalize entries (trim, skip blank and "#" comment lines).
//   - Cache loaded lists per file so a board change does not re-read disk.
//
// Lookup order for a list named "hu.txt":
//   1. $DATA_DIR/wordlists/hu.txt
//   2. assets/wordlists/hu.txt (embedded)
//
// A list found in neither place yields ErrWordlistMissing; the caller treats
// that as a degraded source rather than a fatal error.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robalobadob/szokereso/assets"
)

// ErrWordlistMissing reports that no wordlist file exists for a language.
var ErrWordlistMissing = errors.New("words: wordlist missing")

// Lists loads and caches wordlists.
type Lists struct {
	dir   string
	mu    sync.RWMutex
	cache map[string][]string
}

// NewLists returns a loader reading from dir (may be empty to use only the
// embedded defaults).
func NewLists(dir string) *Lists {
	return &Lists{dir: dir, cache: make(map[string][]string)}
}

// Load returns the entries of the named wordlist.
func (l *Lists) Load(name string) ([]string, error) {
	l.mu.RLock()
	list, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return list, nil
	}

	list, err := l.read(name)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cache[name] = list
	l.mu.Unlock()
	return list, nil
}

func (l *Lists) read(name string) ([]string, error) {
	if l.dir != "" {
		f, err := os.Open(filepath.Join(l.dir, name))
		if err == nil {
			defer f.Close()
			return readLines(f)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open wordlist %s: %w", name, err)
		}
	}
	f, err := assets.Wordlist(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWordlistMissing, name)
		}
		return nil, err
	}
	defer f.Close()
	return readLines(f)
}

// readLines loads one word per line, trimmed; blank and "#" lines are skipped.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}
