package words

import (
	"fmt"
	"strings"

	"github.com/robalobadob/szokereso/internal/letters"
)

// German is the language name that enables umlaut and sharp-s expansion.
const German = "German"

var punctuation = strings.NewReplacer(".", "", "'", "", "-", "")

var germanExpansion = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss", "ẞ", "SS",
)

// StripPunctuation removes characters that do not take part in letter accounting.
func StripPunctuation(word string) string {
	return punctuation.Replace(word)
}

// Normalize turns a submitted word into the form counted against the board:
// punctuation stripped, German expansions applied, folded.
func Normalize(word string, lang letters.Lang) string {
	w := StripPunctuation(word)
	if lang.Name == German {
		w = germanExpansion.Replace(w)
	}
	return lang.Fold(w)
}

// IsBuildable reports whether word can be laid out from the letters in ref.
func IsBuildable(word string, ref letters.Multiset, lang letters.Lang) bool {
	w := Normalize(word, lang)
	if w == "" {
		return false
	}
	return ref.Contains(letters.Count(w))
}

// Shortfall describes one letter a word needs more of than the board holds.
type Shortfall struct {
	Letter    string
	Needed    int
	Available int
}

// ExplainFailure lists every letter where need exceeds supply, ordered by letter.
// An empty result means the word is buildable.
func ExplainFailure(word, ref letters.Multiset) []Shortfall {
	var out []Shortfall
	for _, l := range word.Keys() {
		if word[l] > ref[l] {
			out = append(out, Shortfall{Letter: l, Needed: word[l], Available: ref[l]})
		}
	}
	return out
}

// Explain is ExplainFailure on a raw word.
func Explain(word string, ref letters.Multiset, lang letters.Lang) []Shortfall {
	return ExplainFailure(letters.Count(Normalize(word, lang)), ref)
}

// FormatShortfalls renders diagnostics as user-facing text, one letter per line.
func FormatShortfalls(s []Shortfall) string {
	lines := make([]string, 0, len(s))
	for _, f := range s {
		if f.Available == 0 {
			lines = append(lines, fmt.Sprintf("%s: not on the board (needed %d)", f.Letter, f.Needed))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: needed %d, only %d on the board", f.Letter, f.Needed, f.Available))
	}
	return strings.Join(lines, "\n")
}

// Tier classifies a word by length for the acknowledgement reaction.
type Tier int

const (
	TierShort Tier = iota
	TierMedium
	TierLong
	TierHuge
)

// LengthTier measures the punctuation-stripped word without German expansion:
// 1-5 letters short, 6-8 medium, 9 long, 10 and more huge.
func LengthTier(word string) Tier {
	n := letters.Len(StripPunctuation(word))
	switch {
	case n >= 10:
		return TierHuge
	case n == 9:
		return TierLong
	case n >= 6:
		return TierMedium
	default:
		return TierShort
	}
}
