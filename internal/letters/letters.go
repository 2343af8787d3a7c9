// Package letters holds the board alphabet primitives: languages, case folding,
// grapheme counting and collation order.
//
// Every validity check in the engine runs against a Multiset built here, so the
// folding rules must stay identical between board letters and submitted words.
package letters

import (
	"fmt"
	"sort"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lang is a configured game language: its display name ("Hungarian", "German")
// and the BCP-47 tag driving folding and collation.
type Lang struct {
	Name string
	Tag  language.Tag
}

// NewLang parses tag and binds it to name.
func NewLang(name, tag string) (Lang, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Lang{}, fmt.Errorf("language %q: %w", name, err)
	}
	return Lang{Name: name, Tag: t}, nil
}

// Fold NFC-normalizes s and lowercases it with the language's casing rules.
func (l Lang) Fold(s string) string {
	return cases.Lower(l.Tag).String(norm.NFC.String(s))
}

// Graphemes splits s into user-perceived characters.
func Graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(norm.NFC.String(s))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Len is the grapheme length of s.
func Len(s string) int {
	return uniseg.GraphemeClusterCount(norm.NFC.String(s))
}

// Multiset maps a folded letter to its number of occurrences.
type Multiset map[string]int

// Build canonicalizes a drawn board. Empty entries are unset placeholders and
// are skipped; every other face counts once under its folded form.
func Build(board []string, lang Lang) Multiset {
	m := make(Multiset, len(board))
	for _, face := range board {
		if face == "" {
			continue
		}
		m[lang.Fold(face)]++
	}
	return m
}

// Count builds the multiset of an already folded word, one entry per grapheme.
func Count(word string) Multiset {
	m := make(Multiset)
	for _, g := range Graphemes(word) {
		m[g]++
	}
	return m
}

// Total is the number of letters in the multiset.
func (m Multiset) Total() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}

// Contains reports whether every letter of sub occurs in m at least as often.
func (m Multiset) Contains(sub Multiset) bool {
	for l, c := range sub {
		if c > m[l] {
			return false
		}
	}
	return true
}

// Keys returns the letters of m in byte order.
func (m Multiset) Keys() []string {
	out := make([]string, 0, len(m))
	for l := range m {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Sorted returns a copy of list ordered by the language's collation.
func Sorted(list []string, lang Lang) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	collate.New(lang.Tag).SortStrings(out)
	return out
}
