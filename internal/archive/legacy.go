// internal/archive/legacy.go
//
// One-time import of the legacy plain-text archive.
//
// The legacy file stores four lines per game at fixed offsets:
//
//	line 4k+1  game number
//	line 4k+2  language name
//	line 4k+3  16 letters, space separated
//	line 4k+4  found words, space separated (may be empty)
//
// The engine never reads this format; it is converted once into the JSON
// archive by `szokereso import-legacy`.

package archive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const legacyLinesPerGame = 4

// ParseLegacy converts the legacy line format into records.
func ParseLegacy(source string, r io.Reader) ([]Record, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// A trailing blank line after the last block is tolerated.
	for len(lines)%legacyLinesPerGame != 0 && len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%legacyLinesPerGame != 0 {
		return nil, &MalformedError{Source: source, Reason: fmt.Sprintf("%d lines is not a multiple of %d", len(lines), legacyLinesPerGame)}
	}

	out := make([]Record, 0, len(lines)/legacyLinesPerGame)
	for i := 0; i < len(lines); i += legacyLinesPerGame {
		pos := i/legacyLinesPerGame + 1
		bad := func(format string, args ...any) error {
			return &MalformedError{Source: source, Position: pos, Reason: fmt.Sprintf(format, args...)}
		}

		numFields := strings.Fields(lines[i])
		if len(numFields) != 1 {
			return nil, bad("game number line has %d fields", len(numFields))
		}
		n, err := strconv.Atoi(numFields[0])
		if err != nil {
			return nil, bad("game number %q: %v", numFields[0], err)
		}
		langFields := strings.Fields(lines[i+1])
		if len(langFields) != 1 {
			return nil, bad("language line has %d fields", len(langFields))
		}
		letters := strings.Fields(lines[i+2])
		if len(letters) != BoardSize {
			return nil, bad("letters line has %d fields, want %d", len(letters), BoardSize)
		}

		rec := Record{
			GameNumber:       n,
			Lang:             langFields[0],
			LettersSorted:    letters,
			FoundWordsSorted: append([]string{}, strings.Fields(lines[i+3])...),
		}
		if err := rec.Validate(); err != nil {
			return nil, bad("%v", err)
		}
		if rec.GameNumber != pos {
			return nil, bad("game number %d out of sequence", rec.GameNumber)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Import appends legacy records to an empty store.
func Import(ctx context.Context, s Store, recs []Record) error {
	n, err := s.Len(ctx)
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("archive: import into non-empty archive (%d records)", n)
	}
	for _, r := range recs {
		if _, err := s.Append(ctx, r); err != nil {
			return fmt.Errorf("import game %d: %w", r.GameNumber, err)
		}
	}
	return nil
}
