package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadGameDefault(t *testing.T) {
	g, err := LoadGame("")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if g.DefaultLanguage() != "Hungarian" {
		t.Errorf("expected Hungarian default, got %s", g.DefaultLanguage())
	}
	for _, l := range g.Languages {
		if len(l.Dice) != BoardSize {
			t.Errorf("%s: expected %d dice, got %d", l.Name, BoardSize, len(l.Dice))
		}
	}
	if g.ReuseThreshold != 10 {
		t.Errorf("expected reuse threshold 10, got %d", g.ReuseThreshold)
	}
}

func TestHintLanguages(t *testing.T) {
	g, err := LoadGame("")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := g.HintLanguages("Hungarian"), []string{"Hungarian", "English", "German"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, want := g.HintLanguages("English"), []string{"English", "Hungarian"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := g.TranslationTarget("Hungarian", "Hungarian"); got != "English" {
		t.Errorf("expected English target, got %s", got)
	}
	if got := g.TranslationTarget("German", "Hungarian"); got != "Hungarian" {
		t.Errorf("expected Hungarian target, got %s", got)
	}
}

func die16(face string) string {
	var sb strings.Builder
	for i := 0; i < 16; i++ {
		sb.WriteString("      - [" + face + "]\n")
	}
	return sb.String()
}

func TestParseGameRejects(t *testing.T) {
	base := "emoji:\n  default:\n    - [a, b]\nlanguages:\n  - name: English\n    tag: en\n    dice:\n"
	cases := map[string]string{
		"too few dice":     base + "      - [a]\n",
		"multi-letter die": base + die16("qu"),
		"unknown pair":     base + die16("a") + "translations:\n  - [English, Klingon]\n",
		"no emoji":         "languages:\n  - name: English\n    tag: en\n    dice:\n" + die16("a"),
		"bad tag":          strings.Replace(base, "tag: en", "tag: '!!'", 1) + die16("a"),
	}
	for name, y := range cases {
		if _, err := ParseGame([]byte(y)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := ParseGame([]byte(base + die16("a"))); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/szo")
	t.Setenv("DB_PATH", "")
	t.Setenv("END_CEILING", "25")
	t.Setenv("JWT_EXPIRES_DAYS", "2")
	t.Setenv("PORT", "")

	env := LoadEnv()
	if env.DBPath != "/tmp/szo/szokereso.db" {
		t.Errorf("expected DB under the data dir, got %s", env.DBPath)
	}
	if env.EndCeiling != 25 || env.Port != "5175" {
		t.Errorf("expected ceiling 25 and default port, got %d %s", env.EndCeiling, env.Port)
	}
	if env.TokenTTL.Hours() != 48 {
		t.Errorf("expected 48h token ttl, got %v", env.TokenTTL)
	}
}
