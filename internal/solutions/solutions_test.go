package solutions

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/robalobadob/szokereso/internal/config"
	"github.com/robalobadob/szokereso/internal/dictionary"
	"github.com/robalobadob/szokereso/internal/words"
)

func testConfig(t *testing.T) *config.Game {
	t.Helper()
	dice := strings.Repeat("      - [a]\n", config.BoardSize)
	yml := fmt.Sprintf(`
end_ceiling: 40
languages:
  - name: English
    tag: en
    wordlist: en.txt
    dice:
%s  - name: German
    tag: de
    wordlist: de.txt
    dice:
%stranslations:
  - [English, German]
custom_reactions:
  English:
    tea: "🍵"
    zebra: "🦓"
emoji:
  default:
    - [a, b]
`, dice, dice)
	g, err := config.ParseGame([]byte(yml))
	if err != nil {
		t.Fatalf("ParseGame: %v", err)
	}
	return g
}

type fakeLists map[string][]string

func (f fakeLists) Load(name string) ([]string, error) {
	l, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", words.ErrWordlistMissing, name)
	}
	return l, nil
}

type fakeDict struct {
	words map[string][]string
	fail  map[string]bool
}

func (f fakeDict) WordsFor(ctx context.Context, lang string) (map[string]struct{}, error) {
	if f.fail[lang] {
		return nil, fmt.Errorf("%w: closed", dictionary.ErrUnavailable)
	}
	out := make(map[string]struct{}, len(f.words[lang]))
	for _, w := range f.words[lang] {
		out[w] = struct{}{}
	}
	return out, nil
}

func (f fakeDict) Translate(ctx context.Context, word, from, to string) (string, bool, error) {
	return "", false, nil
}

var board = []string{"c", "a", "t", "s", "t", "o", "n", "e", "r", "e", "a", "d", "", "", "", ""}

func keys(w Words) []string {
	out := make([]string, 0, len(w))
	for k := range w {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func recompute(t *testing.T, lists fakeLists, dict dictionary.Lookup) *Set {
	t.Helper()
	cfg := testConfig(t)
	en, _ := cfg.Language("English")
	a := &Aggregator{Config: cfg, Wordlists: lists, Dictionary: dict}
	return a.Recompute(context.Background(), board, en, []string{"dare", "zzz"})
}

func TestRecompute(t *testing.T) {
	s := recompute(t,
		fakeLists{"en.txt": {"cat", "dog", "stone", "zebra", "tea"}},
		fakeDict{words: map[string][]string{
			"English": {"Stone", "rat", "xylophone"},
			"German":  {"Rad", "Zug"},
		}},
	)

	if got, want := keys(s.Wordlist), []string{"cat", "stone", "tea"}; !reflect.DeepEqual(got, want) {
		t.Errorf("wordlist: expected %v, got %v", want, got)
	}
	if got, want := keys(s.Hints["English"]), []string{"rat", "stone"}; !reflect.DeepEqual(got, want) {
		t.Errorf("English hints: expected %v, got %v", want, got)
	}
	if s.Hints["English"]["stone"] != "Stone" {
		t.Errorf("expected hint spelling kept, got %q", s.Hints["English"]["stone"])
	}
	if got, want := keys(s.Hints["German"]), []string{"rad"}; !reflect.DeepEqual(got, want) {
		t.Errorf("German hints: expected %v, got %v", want, got)
	}
	if got, want := keys(s.Community), []string{"dare"}; !reflect.DeepEqual(got, want) {
		t.Errorf("community: expected %v, got %v", want, got)
	}
	if got, want := keys(s.CustomEmoji), []string{"tea"}; !reflect.DeepEqual(got, want) {
		t.Errorf("custom: expected %v, got %v", want, got)
	}
	if got, want := keys(s.All), []string{"cat", "dare", "rad", "rat", "stone", "tea"}; !reflect.DeepEqual(got, want) {
		t.Errorf("all: expected %v, got %v", want, got)
	}
	if got, want := keys(s.Longest), []string{"stone"}; !reflect.DeepEqual(got, want) {
		t.Errorf("longest: expected %v, got %v", want, got)
	}
	if len(s.Unavailable) != 0 {
		t.Errorf("expected no degraded sources, got %v", s.Unavailable)
	}

	if got, want := s.Sources("tea"), []Source{SourceWordlist, SourceCustomEmoji}; !reflect.DeepEqual(got, want) {
		t.Errorf("sources of tea: expected %v, got %v", want, got)
	}
	if got, want := s.Sources("stone"), []Source{SourceWordlist, SourceHint}; !reflect.DeepEqual(got, want) {
		t.Errorf("sources of stone: expected %v, got %v", want, got)
	}
	if s.Approved("dog") {
		t.Error("expected dog not approved")
	}
	if got := s.EndAmount(40); got != 1 {
		t.Errorf("expected end amount 1 (3 wordlist matches / 2), got %d", got)
	}
}

func TestAddCommunity(t *testing.T) {
	s := recompute(t, fakeLists{"en.txt": {"cat"}}, nil)

	if s.AddCommunity("zoo") {
		t.Error("expected unbuildable community word rejected")
	}
	if !s.AddCommunity("Stoned") {
		t.Fatal("expected buildable community word added")
	}
	if !s.Approved("stoned") || !s.IsLongest("stoned") {
		t.Errorf("expected stoned approved and longest, got longest %v", keys(s.Longest))
	}
	if got, want := s.Sources("stoned"), []Source{SourceCommunity}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCloneKeepsOriginal(t *testing.T) {
	s := recompute(t, fakeLists{"en.txt": {"cat"}}, nil)
	longest := keys(s.Longest)

	c := s.Clone()
	if !c.AddCommunity("Stoned") {
		t.Fatal("expected stoned added to the clone")
	}
	if s.Approved("stoned") || len(s.Community) != 1 {
		t.Errorf("expected original untouched, got community %v", keys(s.Community))
	}
	if got := keys(s.Longest); !reflect.DeepEqual(got, longest) {
		t.Errorf("expected original longest %v, got %v", longest, got)
	}
	if !c.Approved("stoned") || !c.Approved("cat") {
		t.Errorf("expected clone to hold old and new solutions, got %v", keys(c.All))
	}
}

func TestRecomputeDegrades(t *testing.T) {
	s := recompute(t, fakeLists{}, fakeDict{fail: map[string]bool{"German": true}})

	if !errors.Is(s.Unavailable["wordlist"], words.ErrWordlistMissing) {
		t.Errorf("expected missing wordlist reported, got %v", s.Unavailable)
	}
	if !errors.Is(s.Unavailable["hint:German"], dictionary.ErrUnavailable) {
		t.Errorf("expected German hints unavailable, got %v", s.Unavailable)
	}
	if _, ok := s.Unavailable["hint:English"]; ok {
		t.Error("expected English hints available")
	}
	if got := s.EndAmount(40); got != DefaultEndAmount {
		t.Errorf("expected fallback end amount %d, got %d", DefaultEndAmount, got)
	}
	if !s.Approved("dare") {
		t.Error("expected community words to survive a missing wordlist")
	}

	none := recompute(t, fakeLists{"en.txt": nil}, nil)
	if !errors.Is(none.Unavailable["hint:English"], dictionary.ErrUnavailable) {
		t.Errorf("expected hints unavailable without a dictionary, got %v", none.Unavailable)
	}
}
