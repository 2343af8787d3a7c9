package emoji

import (
	"testing"
	"time"

	"github.com/robalobadob/szokereso/internal/letters"
)

func hu(t *testing.T) letters.Lang {
	t.Helper()
	l, err := letters.NewLang("Hungarian", "hu")
	if err != nil {
		t.Fatal(err)
	}
	return l
}

var table = VersionTable{
	Default: [][]string{{"a0", "a1"}, {"b0", "b1"}, {"c0", "c1"}, {"d0", "d1"}, {"e0", "e1"}},
	ByDate:  map[string][][]string{"12-24": {{"x0", "x1"}}},
}

func TestSelectScaleDeterministic(t *testing.T) {
	l := hu(t)
	board := []string{"a", "l", "m", "a", "k", "é", "s", "z", "t", "e", "r", "o", "g", "b", "i", "n"}
	day := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	first := SelectScale(board, l, day, table)
	for i := 0; i < 5; i++ {
		if got := SelectScale(board, l, day.Add(time.Duration(i)*time.Hour), table); got[0] != first[0] {
			t.Fatalf("expected stable pick %v, got %v", first, got)
		}
	}

	// Order of the board does not matter: letters are sorted before hashing.
	shuffled := append([]string{}, board...)
	shuffled[0], shuffled[15] = shuffled[15], shuffled[0]
	if got := SelectScale(shuffled, l, day, table); got[0] != first[0] {
		t.Errorf("expected shuffle to keep pick %v, got %v", first, got)
	}
}

func TestSelectScaleDateOverride(t *testing.T) {
	l := hu(t)
	board := []string{"a", "b"}
	xmas := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	if got := SelectScale(board, l, xmas, table); got[0] != "x0" {
		t.Errorf("expected dated scale, got %v", got)
	}
	if got := SelectScale(board, l, xmas, VersionTable{}); got != nil {
		t.Errorf("expected nil for empty table, got %v", got)
	}
}

func TestIndexMatchesDigest(t *testing.T) {
	l := hu(t)
	// Same letters in different case hash differently; both must stay in range.
	for _, b := range [][]string{{"A", "B"}, {"a", "b"}} {
		if i := Index(b, l, 5); i < 0 || i >= 5 {
			t.Errorf("index %d out of range", i)
		}
	}
	if Index([]string{"a"}, l, 0) != 0 {
		t.Error("expected 0 for empty scale list")
	}
}

func TestProgressBar(t *testing.T) {
	scale := []string{"_", "+", "#"}
	cases := []struct {
		approved, end, cells int
		want                 string
	}{
		{0, 10, 5, "_____"},
		{10, 10, 5, "#####"},
		{15, 10, 5, "#####"},
		{5, 10, 5, "##+__"},
		{1, 10, 5, "+____"},
	}
	for _, c := range cases {
		if got := ProgressBar(scale, c.approved, c.end, c.cells); got != c.want {
			t.Errorf("ProgressBar(%d/%d): expected %q, got %q", c.approved, c.end, c.want, got)
		}
	}
	if got := ProgressBar([]string{"o"}, 3, 10, 3); got != "ooo" {
		t.Errorf("expected single-entry scale repeated, got %q", got)
	}
}
