package words

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/robalobadob/szokereso/internal/letters"
)

func lang(t *testing.T, name, tag string) letters.Lang {
	t.Helper()
	l, err := letters.NewLang(name, tag)
	if err != nil {
		t.Fatalf("NewLang: %v", err)
	}
	return l
}

func TestIsBuildableProperty(t *testing.T) {
	en := lang(t, "English", "en")
	alphabet := []rune("abcdefghijklmnop")
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 500; i++ {
		board := make([]string, 16)
		for j := range board {
			board[j] = string(alphabet[rng.IntN(len(alphabet))])
		}
		ref := letters.Build(board, en)

		// Any permutation of a subset of the board must validate.
		perm := rng.Perm(len(board))
		n := 1 + rng.IntN(len(board))
		var sb strings.Builder
		for _, k := range perm[:n] {
			sb.WriteString(strings.ToUpper(board[k]))
		}
		sub := sb.String()
		if !IsBuildable(sub, ref, en) {
			t.Fatalf("expected %q buildable from %v", sub, board)
		}
		if s := Explain(sub, ref, en); len(s) != 0 {
			t.Fatalf("expected no shortfalls for %q, got %v", sub, s)
		}

		// One more copy of any letter than the board holds must fail.
		extra := board[rng.IntN(len(board))]
		super := strings.Repeat(extra, ref[extra]+1)
		if IsBuildable(super, ref, en) {
			t.Fatalf("expected %q not buildable from %v", super, board)
		}
		s := Explain(super, ref, en)
		if len(s) != 1 || s[0].Letter != extra || s[0].Needed != ref[extra]+1 || s[0].Available != ref[extra] {
			t.Fatalf("expected shortfall on %q, got %v", extra, s)
		}
	}
}

func TestGermanExpansion(t *testing.T) {
	de := lang(t, "German", "de")
	hu := lang(t, "Hungarian", "hu")
	en := lang(t, "English", "en")
	board := letters.Build([]string{"a", "e", "s", "s"}, de)

	if !IsBuildable("aß", board, de) {
		t.Error("expected aß buildable under German rules")
	}
	for _, l := range []letters.Lang{hu, en} {
		if IsBuildable("aß", letters.Build([]string{"a", "e", "s", "s"}, l), l) {
			t.Errorf("expected aß rejected under %s rules", l.Name)
		}
	}
	if got := Normalize("Über", de); got != "ueber" {
		t.Errorf("expected ueber, got %q", got)
	}
}

func TestPunctuationIgnored(t *testing.T) {
	en := lang(t, "English", "en")
	board := letters.Build([]string{"r", "o", "c", "k", "n"}, en)
	if !IsBuildable("rock-n.", board, en) {
		t.Error("expected punctuation to be stripped")
	}
	if IsBuildable("'-.", board, en) {
		t.Error("expected punctuation-only word to be rejected")
	}
}

func TestExplainFailure(t *testing.T) {
	word := letters.Multiset{"a": 2, "b": 1, "z": 1}
	ref := letters.Multiset{"a": 1, "b": 1}
	got := ExplainFailure(word, ref)
	want := []Shortfall{{Letter: "a", Needed: 2, Available: 1}, {Letter: "z", Needed: 1, Available: 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("shortfall %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	text := FormatShortfalls(got)
	if !strings.Contains(text, "a: needed 2, only 1 on the board") || !strings.Contains(text, "z: not on the board") {
		t.Errorf("unexpected diagnostics %q", text)
	}
}

func TestLengthTier(t *testing.T) {
	cases := []struct {
		word string
		want Tier
	}{
		{"alma", TierShort},
		{"lebzsel", TierMedium},
		{"kilencven", TierLong},
		{"érelmeszesedés", TierHuge},
		{"a-l-m-a", TierShort},
		{"straße", TierMedium},
	}
	for _, c := range cases {
		if got := LengthTier(c.word); got != c.want {
			t.Errorf("LengthTier(%q): expected %d, got %d", c.word, c.want, got)
		}
	}
}
