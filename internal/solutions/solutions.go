// Package solutions derives the approved words of a board from every word
// source: the static wordlist, dictionary hints per translation language, the
// community list and the custom reaction words.
//
// Words are keyed by their folded form in the board's language; each map
// keeps the spelling the source provided, which is what translation lookups
// need.
package solutions

import (
	"context"
	"errors"
	"maps"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/szokereso/internal/config"
	"github.com/robalobadob/szokereso/internal/dictionary"
	"github.com/robalobadob/szokereso/internal/letters"
	"github.com/robalobadob/szokereso/internal/words"
)

// Source names where a solution came from.
type Source string

const (
	SourceWordlist    Source = "wordlist"
	SourceHint        Source = "hint"
	SourceCommunity   Source = "community"
	SourceCustomEmoji Source = "custom"
)

// DefaultEndAmount is the target when the wordlist matched nothing.
const DefaultEndAmount = 100

// Wordlists loads static wordlists by file name.
type Wordlists interface {
	Load(name string) ([]string, error)
}

// Words maps a folded word to its source spelling.
type Words map[string]string

// Set is the solution state of one board.
type Set struct {
	Lang        config.Language
	Wordlist    Words
	Hints       map[string]Words // by source language
	Community   Words
	CustomEmoji Words
	All         Words
	Longest     Words

	// Unavailable lists degraded sources ("wordlist", "hint:English") with
	// the error that made them unavailable.
	Unavailable map[string]error

	ref     letters.Multiset
	longest int
}

// Aggregator builds a Set for a board.
type Aggregator struct {
	Config     *config.Game
	Wordlists  Wordlists
	Dictionary dictionary.Lookup // nil disables hints
}

// Recompute derives the solutions of board in lang. Missing sources degrade
// the result instead of failing it.
func (a *Aggregator) Recompute(ctx context.Context, board []string, lang config.Language, community []string) *Set {
	ref := letters.Build(board, lang.Lang)
	s := &Set{
		Lang:        lang,
		Wordlist:    Words{},
		Hints:       map[string]Words{},
		Community:   Words{},
		CustomEmoji: Words{},
		All:         Words{},
		Longest:     Words{},
		Unavailable: map[string]error{},
		ref:         ref,
	}

	list, err := a.Wordlists.Load(lang.Wordlist)
	if err != nil {
		s.degrade(string(SourceWordlist), err)
	}
	s.Wordlist = s.filter(list, ref, lang.Lang)

	for _, name := range a.Config.HintLanguages(lang.Name) {
		src, ok := a.Config.Language(name)
		if !ok {
			continue
		}
		key := string(SourceHint) + ":" + name
		if a.Dictionary == nil {
			s.degrade(key, dictionary.ErrUnavailable)
			continue
		}
		dict, err := a.Dictionary.WordsFor(ctx, name)
		if err != nil {
			s.degrade(key, err)
			continue
		}
		candidates := make([]string, 0, len(dict))
		for w := range dict {
			candidates = append(candidates, w)
		}
		s.Hints[name] = s.filter(candidates, ref, src.Lang)
	}

	s.Community = s.filter(community, ref, lang.Lang)
	s.CustomEmoji = s.filter(a.Config.CustomWords(lang.Name), ref, lang.Lang)

	for _, m := range s.sources() {
		for k, w := range m {
			s.add(k, w)
		}
	}
	return s
}

func (s *Set) degrade(source string, err error) {
	s.Unavailable[source] = err
	ev := log.Warn().Err(err).Str("source", source).Str("lang", s.Lang.Name)
	if errors.Is(err, words.ErrWordlistMissing) {
		ev.Msg("wordlist missing; end amount falls back to default")
		return
	}
	ev.Msg("solution source unavailable")
}

// filter keeps the buildable candidates, validated with the rules of the
// candidate's own language, keyed by their fold in the board language.
func (s *Set) filter(candidates []string, ref letters.Multiset, lang letters.Lang) Words {
	out := Words{}
	for _, w := range candidates {
		if words.IsBuildable(w, ref, lang) {
			out[s.Key(w)] = w
		}
	}
	return out
}

func (s *Set) sources() []Words {
	out := []Words{s.Wordlist, s.Community, s.CustomEmoji}
	for _, name := range s.hintLangs() {
		out = append(out, s.Hints[name])
	}
	return out
}

func (s *Set) hintLangs() []string {
	out := make([]string, 0, len(s.Hints))
	for name := range s.Hints {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Set) add(key, word string) {
	if _, ok := s.All[key]; !ok {
		s.All[key] = word
	}
	n := letters.Len(words.StripPunctuation(key))
	switch {
	case n > s.longest:
		s.longest = n
		s.Longest = Words{key: word}
	case n == s.longest:
		s.Longest[key] = word
	}
}

// Key is the form a word is stored and compared under on this board.
func (s *Set) Key(word string) string {
	return s.Lang.Fold(word)
}

// Approved reports whether the folded word is a solution.
func (s *Set) Approved(key string) bool {
	_, ok := s.All[key]
	return ok
}

// IsLongest reports whether the folded word is one of the longest solutions.
func (s *Set) IsLongest(key string) bool {
	_, ok := s.Longest[key]
	return ok
}

// Sources lists every source that approves the folded word.
func (s *Set) Sources(key string) []Source {
	var out []Source
	if _, ok := s.Wordlist[key]; ok {
		out = append(out, SourceWordlist)
	}
	for _, name := range s.hintLangs() {
		if _, ok := s.Hints[name][key]; ok {
			out = append(out, SourceHint)
			break
		}
	}
	if _, ok := s.Community[key]; ok {
		out = append(out, SourceCommunity)
	}
	if _, ok := s.CustomEmoji[key]; ok {
		out = append(out, SourceCustomEmoji)
	}
	return out
}

// Clone returns a copy that AddCommunity can extend without changing s.
// The wordlist, hint and custom sources are shared.
func (s *Set) Clone() *Set {
	c := *s
	c.Community = maps.Clone(s.Community)
	c.All = maps.Clone(s.All)
	c.Longest = maps.Clone(s.Longest)
	if c.Community == nil {
		c.Community = Words{}
	}
	if c.All == nil {
		c.All = Words{}
	}
	if c.Longest == nil {
		c.Longest = Words{}
	}
	return &c
}

// AddCommunity adds an accepted community word. It reports false when the
// word is not buildable on the board.
func (s *Set) AddCommunity(word string) bool {
	if !words.IsBuildable(word, s.ref, s.Lang.Lang) {
		return false
	}
	k := s.Key(word)
	s.Community[k] = word
	s.add(k, word)
	return true
}

// EndAmount is the approved-word target: half the wordlist matches capped at
// ceiling, or DefaultEndAmount when the wordlist matched nothing.
func (s *Set) EndAmount(ceiling int) int {
	if len(s.Wordlist) == 0 {
		return DefaultEndAmount
	}
	return min(ceiling, len(s.Wordlist)/2)
}
