// Package dictionary answers the two questions the solution engine asks of
// the dictionary collaborator: which headwords exist in a language, and how a
// word translates into another language.
package dictionary

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnavailable wraps every failure of the backing store, so callers can
// treat hints as unavailable instead of failing the game.
var ErrUnavailable = errors.New("dictionary: unavailable")

// Lookup is the dictionary as seen by the engine. Words are case-sensitive.
type Lookup interface {
	WordsFor(ctx context.Context, lang string) (map[string]struct{}, error)
	// Translate returns ok=false when no translation exists.
	Translate(ctx context.Context, word, from, to string) (string, bool, error)
}

// SQLDictionary is a Lookup over the dictionary tables.
type SQLDictionary struct{ db *sql.DB }

// NewSQLDictionary wraps an already migrated database.
func NewSQLDictionary(db *sql.DB) *SQLDictionary { return &SQLDictionary{db: db} }

func (d *SQLDictionary) WordsFor(ctx context.Context, lang string) (map[string]struct{}, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT word FROM dictionary_words WHERE lang=?`, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: words for %s: %v", ErrUnavailable, lang, err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("%w: scan word: %v", ErrUnavailable, err)
		}
		out[w] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: words for %s: %v", ErrUnavailable, lang, err)
	}
	return out, nil
}

func (d *SQLDictionary) Translate(ctx context.Context, word, from, to string) (string, bool, error) {
	var tr string
	err := d.db.QueryRowContext(ctx,
		`SELECT translation FROM dictionary_translations WHERE from_lang=? AND word=? AND to_lang=?`,
		from, word, to,
	).Scan(&tr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: translate %s: %v", ErrUnavailable, word, err)
	}
	return tr, true, nil
}

// Add inserts headwords for lang, ignoring duplicates.
func (d *SQLDictionary) Add(ctx context.Context, lang string, words ...string) error {
	for _, w := range words {
		if _, err := d.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO dictionary_words (lang, word) VALUES (?, ?)`, lang, w); err != nil {
			return fmt.Errorf("add %s word %s: %w", lang, w, err)
		}
	}
	return nil
}

// AddTranslation records word (a headword of from) as translating to tr in to.
func (d *SQLDictionary) AddTranslation(ctx context.Context, from, word, to, tr string) error {
	if err := d.Add(ctx, from, word); err != nil {
		return err
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO dictionary_translations (from_lang, word, to_lang, translation)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_lang, word, to_lang) DO UPDATE SET translation=excluded.translation`,
		from, word, to, tr)
	if err != nil {
		return fmt.Errorf("add translation %s: %w", word, err)
	}
	return nil
}

// ImportTSV loads "word<TAB>translation" lines as translations from one
// language into another. Blank and "#" lines are skipped. It returns the
// number of imported entries.
func (d *SQLDictionary) ImportTSV(ctx context.Context, from, to string, r io.Reader) (int, error) {
	n := 0
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, tr, ok := strings.Cut(text, "\t")
		if !ok || strings.TrimSpace(word) == "" || strings.TrimSpace(tr) == "" {
			return n, fmt.Errorf("line %d: want word<TAB>translation", line)
		}
		if err := d.AddTranslation(ctx, from, strings.TrimSpace(word), to, strings.TrimSpace(tr)); err != nil {
			return n, err
		}
		n++
	}
	return n, sc.Err()
}
