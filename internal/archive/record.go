// internal/archive/record.go
//
// GameRecord and its validation at the load boundary.
//
// A record is one played round. Archived records are addressed by 1-based
// position; the live record becomes the next archive entry (or amends the
// entry it was loaded from).
//
// Persisted records are strict: unknown or missing fields, a wrong number of
// letters or a non-positive game number are reported as *MalformedError and
// never replaced with defaults.

package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// BoardSize is the number of letters a record must carry.
const BoardSize = 16

var (
	// ErrNotFound is returned for an archive index outside [1, Len].
	ErrNotFound = errors.New("archive: record not found")
	// ErrEmpty is returned by ReadLast on an empty archive.
	ErrEmpty = errors.New("archive: empty")
	// ErrMalformed marks persisted state with the wrong shape.
	ErrMalformed = errors.New("archive: malformed record")
)

// MalformedError locates a malformed persisted record.
type MalformedError struct {
	Source   string // file or input name
	Position int    // 1-based record or line position, 0 if not applicable
	Reason   string
}

func (e *MalformedError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("%s: record %d: %s", e.Source, e.Position, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Record is one played round.
type Record struct {
	GameNumber       int      `json:"gameNumber"`
	Lang             string   `json:"currentLang"`
	LettersSorted    []string `json:"lettersSorted"`
	FoundWordsSorted []string `json:"foundWordsSorted"`
}

var recordFields = []string{"currentLang", "foundWordsSorted", "gameNumber", "lettersSorted"}

// Validate checks the invariants every stored record must hold.
func (r Record) Validate() error {
	if r.GameNumber < 1 {
		return fmt.Errorf("game number %d is not positive", r.GameNumber)
	}
	if r.Lang == "" {
		return errors.New("language is empty")
	}
	if len(r.LettersSorted) != BoardSize {
		return fmt.Errorf("%d letters, want %d", len(r.LettersSorted), BoardSize)
	}
	for i, l := range r.LettersSorted {
		if l == "" {
			return fmt.Errorf("letter %d is empty", i+1)
		}
	}
	return nil
}

// Equal reports whether two records hold the same content.
func (r Record) Equal(o Record) bool {
	if r.GameNumber != o.GameNumber || r.Lang != o.Lang {
		return false
	}
	return equalStrings(r.LettersSorted, o.LettersSorted) && equalStrings(r.FoundWordsSorted, o.FoundWordsSorted)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// decodeRecord parses one JSON object strictly: exactly the four record
// fields, no more, no fewer.
func decodeRecord(raw json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, fmt.Errorf("not an object: %v", err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if !equalStrings(keys, recordFields) {
		return Record{}, fmt.Errorf("fields %v, want %v", keys, recordFields)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return Record{}, err
	}
	if r.FoundWordsSorted == nil {
		r.FoundWordsSorted = []string{}
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// decodeRecords parses a JSON array of records, reporting the first bad one.
func decodeRecords(source string, data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &MalformedError{Source: source, Reason: "not a JSON array: " + err.Error()}
	}
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		r, err := decodeRecord(raw)
		if err != nil {
			return nil, &MalformedError{Source: source, Position: i + 1, Reason: err.Error()}
		}
		out = append(out, r)
	}
	return out, nil
}
