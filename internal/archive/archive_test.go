package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func rec(n int, words ...string) Record {
	return Record{
		GameNumber:       n,
		Lang:             "Hungarian",
		LettersSorted:    strings.Split("a a b e é k l m n o r s s t z ö", " "),
		FoundWordsSorted: append([]string{}, words...),
	}
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "archive.json")),
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				r := rec(i, "alma")
				n, err := s.Append(ctx, r)
				if err != nil {
					t.Fatalf("Append: %v", err)
				}
				got, err := s.ReadAt(ctx, n)
				if err != nil {
					t.Fatalf("ReadAt(%d): %v", n, err)
				}
				if !got.Equal(r) {
					t.Fatalf("expected %+v, got %+v", r, got)
				}
			}
			last, err := s.ReadLast(ctx)
			if err != nil || last.GameNumber != 3 {
				t.Errorf("expected last game 3, got %+v (%v)", last, err)
			}
		})
	}
}

func TestOverwriteAtKeepsNeighbours(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				if _, err := s.Append(ctx, rec(i)); err != nil {
					t.Fatal(err)
				}
			}
			if err := s.OverwriteAt(ctx, 2, rec(2, "kés", "lát")); err != nil {
				t.Fatalf("OverwriteAt: %v", err)
			}
			for i, want := range []int{0, 2, 0} {
				got, err := s.ReadAt(ctx, i+1)
				if err != nil {
					t.Fatal(err)
				}
				if len(got.FoundWordsSorted) != want {
					t.Errorf("record %d: expected %d words, got %v", i+1, want, got.FoundWordsSorted)
				}
			}
			if err := s.OverwriteAt(ctx, 4, rec(4)); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestEmptyAndOutOfRange(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.ReadLast(ctx); !errors.Is(err, ErrEmpty) {
				t.Errorf("expected ErrEmpty, got %v", err)
			}
			for _, i := range []int{0, 1, -1} {
				if _, err := s.ReadAt(ctx, i); !errors.Is(err, ErrNotFound) {
					t.Errorf("ReadAt(%d): expected ErrNotFound, got %v", i, err)
				}
			}
		})
	}
}

func TestSaveAppendsOrOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := Save(ctx, s, rec(1)); err != nil {
		t.Fatal(err)
	}
	if err := Save(ctx, s, rec(1, "alma")); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Len(ctx); n != 1 {
		t.Errorf("expected overwrite to keep 1 record, got %d", n)
	}
	if err := Save(ctx, s, rec(3)); err == nil {
		t.Error("expected gap to be rejected")
	}
}

func TestFileStoreRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"extra field":   `[{"gameNumber":1,"currentLang":"Hungarian","lettersSorted":["a","a","b","e","é","k","l","m","n","o","r","s","s","t","z","ö"],"foundWordsSorted":[],"extra":1}]`,
		"missing field": `[{"gameNumber":1,"currentLang":"Hungarian","lettersSorted":["a","a","b","e","é","k","l","m","n","o","r","s","s","t","z","ö"]}]`,
		"few letters":   `[{"gameNumber":1,"currentLang":"Hungarian","lettersSorted":["a"],"foundWordsSorted":[]}]`,
		"not array":     `{"gameNumber":1}`,
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "archive.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore(path).Len(ctx)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
		var me *MalformedError
		if !errors.As(err, &me) {
			t.Errorf("%s: expected *MalformedError, got %T", name, err)
		}
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "archive.json"))
	for i := 1; i <= 3; i++ {
		if _, err := s.Append(ctx, rec(i)); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only archive.json, got %d entries", len(entries))
	}
	// A second store on the same file sees the same content.
	if n, err := NewFileStore(s.Path()).Len(ctx); err != nil || n != 3 {
		t.Errorf("expected 3 records, got %d (%v)", n, err)
	}
}

func TestLiveFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "current.json")
	lf := NewLiveFile(path)

	if s, err := lf.Load(ctx); err != nil || s != nil {
		t.Fatalf("expected nothing saved, got %v (%v)", s, err)
	}

	r := rec(2, "alma")
	letters := append([]string{}, r.LettersSorted...)
	letters[0], letters[15] = letters[15], letters[0]
	want := LiveState{Record: &r, Letters: letters, PlannedLang: "German", ChangesToSave: true, Finders: map[string]string{"alma": "p1"}}
	if err := lf.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := lf.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Record.Equal(r) || got.PlannedLang != "German" || !got.ChangesToSave || got.Finders["alma"] != "p1" || got.Letters[0] != letters[0] {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	bad := LiveState{Record: &r, Letters: []string{"x"}}
	if err := lf.Save(ctx, bad); err == nil {
		t.Error("expected mismatched letters to be rejected")
	}
	if err := os.WriteFile(path, []byte(`{"record":{"gameNumber":0}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := lf.Load(ctx); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestParseLegacy(t *testing.T) {
	good := "1\nHungarian\na a b e é k l m n o r s s t z ö\nalma kés\n" +
		"2\nGerman\na a b e e k l m n o r s s t z ö\n\n"
	recs, err := ParseLegacy("legacy.txt", strings.NewReader(good))
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	if len(recs) != 2 || recs[1].Lang != "German" || len(recs[0].FoundWordsSorted) != 2 || len(recs[1].FoundWordsSorted) != 0 {
		t.Fatalf("unexpected records %+v", recs)
	}

	s := NewMemoryStore()
	if err := Import(context.Background(), s, recs); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if err := Import(context.Background(), s, recs); err == nil {
		t.Error("expected import into non-empty archive to fail")
	}

	bad := map[string]string{
		"line count":  "1\nHungarian\na b c\n",
		"field count": "1\nHungarian\na b c\n\n",
		"number":      "x\nHungarian\na a b e é k l m n o r s s t z ö\n\n",
		"sequence":    "2\nHungarian\na a b e é k l m n o r s s t z ö\n\n",
	}
	for name, in := range bad {
		if _, err := ParseLegacy("legacy.txt", strings.NewReader(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}
