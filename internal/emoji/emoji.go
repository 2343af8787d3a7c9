// Package emoji picks the cosmetic progress-bar scale for a board.
//
// The pick is deterministic for a given board and date: the collation-sorted
// letters are space-joined, hashed with SHA-256 and reduced modulo the number
// of scales applicable on that date. The letters are not folded before
// hashing, so the same multiset in a different case picks differently.
package emoji

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"time"

	"github.com/robalobadob/szokereso/internal/letters"
)

// DateKey is the month-day key of the version table ("12-24").
func DateKey(t time.Time) string {
	return t.Format("01-02")
}

// VersionTable holds the default scale list and per-date overrides.
type VersionTable struct {
	Default [][]string
	ByDate  map[string][][]string
}

// ScalesFor returns the list applicable on date.
func (t VersionTable) ScalesFor(date time.Time) [][]string {
	if s, ok := t.ByDate[DateKey(date)]; ok && len(s) > 0 {
		return s
	}
	return t.Default
}

// Index returns a deterministic index in [0, n) for the board letters.
func Index(board []string, lang letters.Lang, n int) int {
	if n <= 0 {
		return 0
	}
	sorted := letters.Sorted(board, lang)
	sum := sha256.Sum256([]byte(strings.Join(sorted, " ")))
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// SelectScale returns the emoji scale for board on date, or nil when the
// table has nothing applicable.
func SelectScale(board []string, lang letters.Lang, date time.Time, table VersionTable) []string {
	scales := table.ScalesFor(date)
	if len(scales) == 0 {
		return nil
	}
	return scales[Index(board, lang, len(scales))]
}

// ProgressBar renders approved/endAmount as cells emojis. Each cell fills
// through the scale from its first entry (empty) to its last (full).
func ProgressBar(scale []string, approved, endAmount, cells int) string {
	if len(scale) == 0 || cells <= 0 {
		return ""
	}
	steps := len(scale) - 1
	if steps == 0 {
		return strings.Repeat(scale[0], cells)
	}
	units := cells * steps
	filled := units
	if endAmount > 0 && approved < endAmount {
		filled = approved * units / endAmount
	}
	if filled < 0 {
		filled = 0
	}

	var sb strings.Builder
	for i := 0; i < cells; i++ {
		level := filled - i*steps
		switch {
		case level < 0:
			level = 0
		case level > steps:
			level = steps
		}
		sb.WriteString(scale[level])
	}
	return sb.String()
}
