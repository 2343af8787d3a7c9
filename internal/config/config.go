// Package config loads process settings from the environment and the game
// definition (languages, dice, translation pairs, reactions, emoji scales)
// from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/szokereso/assets"
	"github.com/robalobadob/szokereso/internal/emoji"
	"github.com/robalobadob/szokereso/internal/letters"
)

// BoardSize is the number of dice drawn per game.
const BoardSize = 16

// Env holds process-level settings.
type Env struct {
	Port         string
	LogLevel     string
	LogFormat    string
	DataDir      string
	DBPath       string
	GameConfig   string
	RedisURL     string
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	NewGameCron  string
	EndCeiling   int // 0 keeps the YAML value
}

// LoadEnv reads .env (if present) and the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()
	dataDir := getEnv("DATA_DIR", "./data")
	ceiling, _ := strconv.Atoi(os.Getenv("END_CEILING"))
	days, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14"))
	if err != nil {
		days = 14
	}
	return Env{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		DataDir:      dataDir,
		DBPath:       getEnv("DB_PATH", filepath.Join(dataDir, "szokereso.db")),
		GameConfig:   os.Getenv("GAME_CONFIG"),
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:     time.Duration(days) * 24 * time.Hour,
		ClientOrigin: os.Getenv("CLIENT_ORIGIN"),
		NewGameCron:  os.Getenv("NEW_GAME_CRON"),
		EndCeiling:   ceiling,
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Language is one playable language.
type Language struct {
	letters.Lang
	Wordlist string
	Dice     [][]string
}

// Game is the validated game definition.
type Game struct {
	EndCeiling      int
	ReuseThreshold  int
	ProgressCells   int
	Languages       []Language
	Translations    [][2]string
	CustomReactions map[string]map[string]string
	Emoji           emoji.VersionTable
}

type fileLanguage struct {
	Name     string     `yaml:"name"`
	Tag      string     `yaml:"tag"`
	Wordlist string     `yaml:"wordlist"`
	Dice     [][]string `yaml:"dice"`
}

type fileGame struct {
	EndCeiling      int                          `yaml:"end_ceiling"`
	ReuseThreshold  *int                         `yaml:"reuse_threshold"`
	ProgressCells   int                          `yaml:"progress_cells"`
	Languages       []fileLanguage               `yaml:"languages"`
	Translations    [][]string                   `yaml:"translations"`
	CustomReactions map[string]map[string]string `yaml:"custom_reactions"`
	Emoji           struct {
		Default [][]string            `yaml:"default"`
		Dates   map[string][][]string `yaml:"dates"`
	} `yaml:"emoji"`
}

// LoadGame reads the game definition from path, or the embedded default when
// path is empty.
func LoadGame(path string) (*Game, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = assets.DefaultConfig()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}
	return ParseGame(data)
}

// ParseGame decodes and validates a YAML game definition.
func ParseGame(data []byte) (*Game, error) {
	var fg fileGame
	if err := yaml.Unmarshal(data, &fg); err != nil {
		return nil, fmt.Errorf("parse game config: %w", err)
	}

	g := &Game{
		EndCeiling:      fg.EndCeiling,
		ReuseThreshold:  10,
		ProgressCells:   fg.ProgressCells,
		CustomReactions: fg.CustomReactions,
		Emoji:           emoji.VersionTable{Default: fg.Emoji.Default, ByDate: fg.Emoji.Dates},
	}
	if fg.ReuseThreshold != nil {
		g.ReuseThreshold = *fg.ReuseThreshold
	}
	if g.EndCeiling <= 0 {
		g.EndCeiling = 40
	}
	if g.ProgressCells <= 0 {
		g.ProgressCells = 10
	}
	if g.CustomReactions == nil {
		g.CustomReactions = map[string]map[string]string{}
	}

	if len(fg.Languages) == 0 {
		return nil, errors.New("game config: no languages")
	}
	for _, fl := range fg.Languages {
		l, err := parseLanguage(fl)
		if err != nil {
			return nil, err
		}
		if _, dup := g.Language(l.Name); dup {
			return nil, fmt.Errorf("game config: duplicate language %q", l.Name)
		}
		g.Languages = append(g.Languages, l)
	}

	for i, pair := range fg.Translations {
		if len(pair) != 2 {
			return nil, fmt.Errorf("game config: translation pair %d has %d entries", i+1, len(pair))
		}
		for _, name := range pair {
			if _, ok := g.Language(name); !ok {
				return nil, fmt.Errorf("game config: translation pair %d: unknown language %q", i+1, name)
			}
		}
		g.Translations = append(g.Translations, [2]string{pair[0], pair[1]})
	}

	for name := range g.CustomReactions {
		if _, ok := g.Language(name); !ok {
			return nil, fmt.Errorf("game config: custom reactions for unknown language %q", name)
		}
	}

	if len(g.Emoji.Default) == 0 {
		return nil, errors.New("game config: emoji.default is empty")
	}
	for _, s := range g.Emoji.Default {
		if len(s) == 0 {
			return nil, errors.New("game config: empty emoji scale")
		}
	}
	return g, nil
}

func parseLanguage(fl fileLanguage) (Language, error) {
	l, err := letters.NewLang(fl.Name, fl.Tag)
	if err != nil {
		return Language{}, fmt.Errorf("game config: %w", err)
	}
	if fl.Name == "" {
		return Language{}, errors.New("game config: language without name")
	}
	if len(fl.Dice) != BoardSize {
		return Language{}, fmt.Errorf("game config: %s has %d dice, want %d", fl.Name, len(fl.Dice), BoardSize)
	}
	for i, die := range fl.Dice {
		if len(die) == 0 {
			return Language{}, fmt.Errorf("game config: %s die %d has no faces", fl.Name, i+1)
		}
		for _, face := range die {
			if letters.Len(face) != 1 {
				return Language{}, fmt.Errorf("game config: %s die %d face %q is not a single letter", fl.Name, i+1, face)
			}
		}
	}
	wl := fl.Wordlist
	if wl == "" {
		wl = fl.Tag + ".txt"
	}
	return Language{Lang: l, Wordlist: wl, Dice: fl.Dice}, nil
}

// Language looks up a configured language by name.
func (g *Game) Language(name string) (Language, bool) {
	for _, l := range g.Languages {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

// DefaultLanguage is the first configured language.
func (g *Game) DefaultLanguage() string {
	return g.Languages[0].Name
}

// HintLanguages lists the dictionary source languages for a board in active:
// every language paired with active, plus active itself when it is paired at
// all. Order follows the translation list.
func (g *Game) HintLanguages(active string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, p := range g.Translations {
		switch active {
		case p[0]:
			add(active)
			add(p[1])
		case p[1]:
			add(active)
			add(p[0])
		}
	}
	return out
}

// TranslationTarget picks the language a hint word from source is translated
// into: the active language, or the first partner of active when the source
// is active itself.
func (g *Game) TranslationTarget(source, active string) string {
	if source != active {
		return active
	}
	for _, p := range g.Translations {
		if p[0] == active {
			return p[1]
		}
		if p[1] == active {
			return p[0]
		}
	}
	return ""
}

// CustomWords returns the custom reaction trigger words for a language.
func (g *Game) CustomWords(lang string) []string {
	m := g.CustomReactions[lang]
	out := make([]string, 0, len(m))
	for w := range m {
		out = append(out, w)
	}
	return out
}
