// internal/game/types.go
//
// Result and view types returned by the game engine.
// Defines:
//   - AddResult: outcome of a word submission (accepted/duplicate/approved, diagnostics, win).
//   - CommunityResult: outcome of a community word proposal.
//   - Entered: how a game became the live game (drawn, reused, loaded) and the
//     standings of the round it replaced.
//   - Hint: one hint word and its translation.
//   - View: read-only snapshot of the live game.

package game

import (
	"github.com/robalobadob/szokereso/internal/awards"
	"github.com/robalobadob/szokereso/internal/solutions"
	"github.com/robalobadob/szokereso/internal/words"
)

// AddResult describes what happened to a submitted word. Rejections are
// results, not errors.
type AddResult struct {
	Word       string             `json:"word"` // folded form stored in found words
	Accepted   bool               `json:"accepted"`
	Duplicate  bool               `json:"duplicate"`
	Approved   bool               `json:"approved"`
	Sources    []solutions.Source `json:"sources,omitempty"`
	Shortfalls []words.Shortfall  `json:"shortfalls,omitempty"`
	Diagnostic string             `json:"diagnostic,omitempty"`
	Tier       words.Tier         `json:"tier"`
	Longest    bool               `json:"longest"`
	Reaction   string             `json:"reaction,omitempty"` // custom emoji, if the word has one
	Win        bool               `json:"win"`
	Standings  *awards.Awards     `json:"standings,omitempty"` // set with Win
	Approvals  int                `json:"approvedCount"`
	EndAmount  int                `json:"endAmount"`
}

// CommunityResult describes a community word proposal.
type CommunityResult struct {
	Word        string         `json:"word"`
	Added       bool           `json:"added"`
	OnBoard     bool           `json:"onBoard"` // buildable here, so now a solution
	Retroactive bool           `json:"retroactive"` // already found, approved after the fact
	Win         bool           `json:"win"`
	Standings   *awards.Awards `json:"standings,omitempty"`
}

// Entered describes a game change.
type Entered struct {
	Mode       string        `json:"mode"` // metrics.ModeDrawn, ModeReused or ModeLoaded
	GameNumber int           `json:"gameNumber"`
	Lang       string        `json:"lang"`
	Letters    []string      `json:"letters"`
	Previous   awards.Awards `json:"previous"` // standings of the replaced round
}

// Hint is a word offered to a player, with its translation when one exists.
type Hint struct {
	Lang        string `json:"lang"`
	Word        string `json:"word"`
	Translation string `json:"translation,omitempty"`
	TransLang   string `json:"translationLang,omitempty"`
}

// View is a read-only snapshot of the live game.
type View struct {
	Started       bool           `json:"started"`
	GameNumber    int            `json:"gameNumber"`
	Lang          string         `json:"lang"`
	PlannedLang   string         `json:"plannedLang"`
	Letters       []string       `json:"letters"`
	FoundWords    []string       `json:"foundWords"` // collation order
	Approvals     int            `json:"approvedCount"`
	EndAmount     int            `json:"endAmount"`
	Solutions     int            `json:"solutions"`
	Wordlist      int            `json:"wordlistSolutions"`
	HintsLeft     map[string]int `json:"hintsLeft"`
	Won           bool           `json:"won"`
	ChangesToSave bool           `json:"changesToSave"`
	Unavailable   []string       `json:"unavailable,omitempty"`
}
