package words

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListsPrefersDataDir(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\nalma\n\n  körte  \n"
	if err := os.WriteFile(filepath.Join(dir, "hu.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLists(dir)
	got, err := l.Load("hu.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := []string{"alma", "körte"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Cached: removing the file does not change the result.
	_ = os.Remove(filepath.Join(dir, "hu.txt"))
	again, err := l.Load("hu.txt")
	if err != nil || len(again) != 2 {
		t.Errorf("expected cached list, got %v (%v)", again, err)
	}
}

func TestListsFallsBackToEmbedded(t *testing.T) {
	l := NewLists(t.TempDir())
	got, err := l.Load("en.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) == 0 {
		t.Error("expected embedded English wordlist to be non-empty")
	}
}

func TestListsMissing(t *testing.T) {
	l := NewLists(t.TempDir())
	_, err := l.Load("xx.txt")
	if !errors.Is(err, ErrWordlistMissing) {
		t.Errorf("expected ErrWordlistMissing, got %v", err)
	}
}
