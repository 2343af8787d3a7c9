// internal/game/engine.go
//
// The game engine: the single authoritative live game of a deployment.
// Responsibilities:
//   - Draw boards from the configured dice, or re-enter archived games.
//   - Validate and record submitted words, tracking approvals against the
//     solution set and firing the win exactly once per game.
//   - Archive the outgoing game before any game change.
//   - Keep player round counters and all-time counters in step with found words.
//
// Every mutation builds the next state aside, persists it, and only then
// replaces the in-memory state, so a failed write leaves the engine as it was.
// Player stats trail the live game: once the game is saved, a failed stats
// update is logged and the command still succeeds.
// The engine is not safe for concurrent use; callers serialize through Table.
package game

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/szokereso/internal/archive"
	"github.com/robalobadob/szokereso/internal/awards"
	"github.com/robalobadob/szokereso/internal/community"
	"github.com/robalobadob/szokereso/internal/config"
	"github.com/robalobadob/szokereso/internal/dictionary"
	"github.com/robalobadob/szokereso/internal/emoji"
	"github.com/robalobadob/szokereso/internal/letters"
	"github.com/robalobadob/szokereso/internal/metrics"
	"github.com/robalobadob/szokereso/internal/players"
	"github.com/robalobadob/szokereso/internal/solutions"
	"github.com/robalobadob/szokereso/internal/words"
)

var (
	// ErrUnknownLanguage is returned for a language missing from the config.
	ErrUnknownLanguage = errors.New("game: unknown language")
	// ErrNotStarted is returned by board operations before the first game.
	ErrNotStarted = errors.New("game: no game drawn yet")
)

// Deps are the collaborators of an Engine. Dictionary may be nil.
type Deps struct {
	Config     *config.Game
	Archive    archive.Store
	Live       archive.LiveStore
	Players    players.Store
	Community  community.Store
	Dictionary dictionary.Lookup
	Wordlists  solutions.Wordlists
	Rand       *rand.Rand
	Now        func() time.Time
}

// Engine runs the live game.
type Engine struct {
	d   Deps
	agg *solutions.Aggregator
	cur live
}

// live is the in-memory game. rec is nil before the first draw.
type live struct {
	rec      *archive.Record
	letters  []string
	planned  string
	dirty    bool
	winAck   bool
	finders  map[string]string
	found    map[string]struct{}
	sol      *solutions.Set
	approved int
	end      int
}

func (l live) clone() live {
	l.found = maps.Clone(l.found)
	l.finders = maps.Clone(l.finders)
	if l.finders == nil {
		l.finders = map[string]string{}
	}
	return l
}

func (l live) foundSorted() []string {
	keys := make([]string, 0, len(l.found))
	for w := range l.found {
		keys = append(keys, w)
	}
	return letters.Sorted(keys, l.sol.Lang.Lang)
}

func (l live) record() archive.Record {
	r := *l.rec
	r.LettersSorted = append([]string(nil), r.LettersSorted...)
	r.FoundWordsSorted = l.foundSorted()
	return r
}

func (l live) state() archive.LiveState {
	st := archive.LiveState{
		PlannedLang:     l.planned,
		ChangesToSave:   l.dirty,
		WinAcknowledged: l.winAck,
	}
	if l.rec == nil {
		return st
	}
	r := l.record()
	st.Record = &r
	st.Letters = append([]string(nil), l.letters...)
	if len(l.finders) > 0 {
		st.Finders = maps.Clone(l.finders)
	}
	return st
}

// New wires an Engine. Call Load before use.
func New(d Deps) *Engine {
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Engine{
		d:   d,
		agg: &solutions.Aggregator{Config: d.Config, Wordlists: d.Wordlists, Dictionary: d.Dictionary},
		cur: live{planned: d.Config.DefaultLanguage()},
	}
}

// Load restores the live game saved by a previous run. Malformed saved state
// is returned as an error wrapping archive.ErrMalformed and leaves the engine
// untouched.
func (e *Engine) Load(ctx context.Context) error {
	st, err := e.d.Live.Load(ctx)
	if err != nil {
		return fmt.Errorf("load live game: %w", err)
	}
	if st == nil {
		log.Info().Str("planned", e.cur.planned).Msg("no live game saved")
		return nil
	}

	planned := st.PlannedLang
	if planned == "" {
		planned = e.d.Config.DefaultLanguage()
	}
	if _, ok := e.d.Config.Language(planned); !ok {
		return &archive.MalformedError{Source: "live game", Reason: fmt.Sprintf("unknown planned language %q", planned)}
	}
	if st.Record == nil {
		e.cur = live{planned: planned}
		return nil
	}

	n, err := e.d.Archive.Len(ctx)
	if err != nil {
		return fmt.Errorf("load live game: %w", err)
	}
	if g := st.Record.GameNumber; g > n+1 {
		return &archive.MalformedError{Source: "live game", Reason: fmt.Sprintf("game %d is beyond an archive of %d", g, n)}
	}
	if _, ok := e.d.Config.Language(st.Record.Lang); !ok {
		return &archive.MalformedError{Source: "live game", Reason: fmt.Sprintf("unknown language %q", st.Record.Lang)}
	}

	board := st.Letters
	if len(board) == 0 {
		board = st.Record.LettersSorted
	}
	next, err := e.build(ctx, *st.Record, board)
	if err != nil {
		return err
	}
	next.planned = planned
	next.dirty = st.ChangesToSave
	next.winAck = st.WinAcknowledged
	for w, id := range st.Finders {
		if _, ok := next.found[w]; ok {
			next.finders[w] = id
		}
	}
	e.cur = next
	metrics.SetSolutions(len(next.sol.All))
	log.Info().
		Int("game", next.rec.GameNumber).
		Str("lang", next.rec.Lang).
		Int("found", len(next.found)).
		Bool("changesToSave", next.dirty).
		Msg("live game restored")
	return nil
}

// build derives the live state of rec laid out as board.
func (e *Engine) build(ctx context.Context, rec archive.Record, board []string) (live, error) {
	lang, err := e.language(rec.Lang)
	if err != nil {
		return live{}, err
	}
	extra, err := e.d.Community.LoadAll(ctx, lang.Name)
	if err != nil {
		log.Warn().Err(err).Str("lang", lang.Name).Msg("community list unavailable")
		extra = nil
	}
	set := e.agg.Recompute(ctx, board, lang, extra)

	r := rec
	r.LettersSorted = append([]string(nil), rec.LettersSorted...)
	l := live{
		rec:     &r,
		letters: append([]string(nil), board...),
		planned: e.cur.planned,
		finders: map[string]string{},
		found:   make(map[string]struct{}, len(rec.FoundWordsSorted)),
		sol:     set,
		end:     set.EndAmount(e.d.Config.EndCeiling),
	}
	for _, w := range rec.FoundWordsSorted {
		k := set.Key(w)
		l.found[k] = struct{}{}
	}
	for k := range l.found {
		if set.Approved(k) {
			l.approved++
		}
	}
	return l, nil
}

func (e *Engine) language(name string) (config.Language, error) {
	lang, ok := e.d.Config.Language(name)
	if !ok {
		return config.Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return lang, nil
}

// commit persists next as the live game and makes it current.
func (e *Engine) commit(ctx context.Context, next live) error {
	if err := e.d.Live.Save(ctx, next.state()); err != nil {
		return fmt.Errorf("save live game: %w", err)
	}
	e.cur = next
	if next.sol != nil {
		metrics.SetSolutions(len(next.sol.All))
	}
	return nil
}

// archiveOutgoing stores the live record when it differs from the archive.
func (e *Engine) archiveOutgoing(ctx context.Context) error {
	if e.cur.rec == nil || !e.cur.dirty {
		return nil
	}
	rec := e.cur.record()
	if err := archive.Save(ctx, e.d.Archive, rec); err != nil {
		return fmt.Errorf("archive game %d: %w", rec.GameNumber, err)
	}
	log.Info().Int("game", rec.GameNumber).Int("found", len(rec.FoundWordsSorted)).Msg("game archived")
	return nil
}

// enter replaces the live game: the outgoing game is archived first, then the
// new one is persisted, then round counters are cleared.
func (e *Engine) enter(ctx context.Context, mode string, next live, prev awards.Awards) (Entered, error) {
	if err := e.commit(ctx, next); err != nil {
		return Entered{}, err
	}
	if err := e.d.Players.ResetAllRounds(ctx); err != nil {
		log.Warn().Err(err).Int("game", next.rec.GameNumber).Msg("round stats not reset")
	}
	metrics.RecordGame(next.rec.Lang, mode)
	log.Info().
		Str("mode", mode).
		Int("game", next.rec.GameNumber).
		Str("lang", next.rec.Lang).
		Int("solutions", len(next.sol.All)).
		Int("endAmount", next.end).
		Msg("game entered")
	return Entered{
		Mode:       mode,
		GameNumber: next.rec.GameNumber,
		Lang:       next.rec.Lang,
		Letters:    append([]string(nil), next.letters...),
		Previous:   prev,
	}, nil
}

// NewGame archives the live game and starts the next one in the planned
// language: the newest archived game when it is lightly played, otherwise a
// fresh draw.
func (e *Engine) NewGame(ctx context.Context) (Entered, error) {
	lang, err := e.language(e.cur.planned)
	if err != nil {
		return Entered{}, err
	}
	prev, err := e.Standings(ctx)
	if err != nil {
		return Entered{}, err
	}
	if err := e.archiveOutgoing(ctx); err != nil {
		return Entered{}, err
	}
	n, err := e.d.Archive.Len(ctx)
	if err != nil {
		return Entered{}, err
	}

	last, reuse, err := e.reusable(ctx, n)
	if err != nil {
		return Entered{}, err
	}
	if reuse {
		next, err := e.build(ctx, last, e.shuffled(last.LettersSorted))
		if err != nil {
			return Entered{}, err
		}
		next.winAck = next.approved >= next.end
		return e.enter(ctx, metrics.ModeReused, next, prev)
	}

	board := e.draw(lang)
	rec := archive.Record{
		GameNumber:       n + 1,
		Lang:             lang.Name,
		LettersSorted:    letters.Sorted(board, lang.Lang),
		FoundWordsSorted: []string{},
	}
	next, err := e.build(ctx, rec, board)
	if err != nil {
		return Entered{}, err
	}
	next.dirty = true
	return e.enter(ctx, metrics.ModeDrawn, next, prev)
}

// reusable reports whether the newest archived game should be re-entered
// instead of drawing: same planned language, at most ReuseThreshold found
// words, and not the game being left.
func (e *Engine) reusable(ctx context.Context, n int) (archive.Record, bool, error) {
	if n == 0 || (e.cur.rec != nil && e.cur.rec.GameNumber == n) {
		return archive.Record{}, false, nil
	}
	last, err := e.d.Archive.ReadLast(ctx)
	if err != nil {
		return archive.Record{}, false, err
	}
	ok := last.Lang == e.cur.planned && len(last.FoundWordsSorted) <= e.d.Config.ReuseThreshold
	return last, ok, nil
}

// draw rolls the dice in a random order, one random face each.
func (e *Engine) draw(lang config.Language) []string {
	perm := e.d.Rand.Perm(len(lang.Dice))
	board := make([]string, 0, config.BoardSize)
	for _, i := range perm[:config.BoardSize] {
		die := lang.Dice[i]
		board = append(board, die[e.d.Rand.IntN(len(die))])
	}
	return board
}

func (e *Engine) shuffled(list []string) []string {
	out := append([]string(nil), list...)
	e.d.Rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ShuffleLetters reorders the board. Found words, solutions and the
// changes-to-save flag are untouched.
func (e *Engine) ShuffleLetters(ctx context.Context) ([]string, error) {
	if e.cur.rec == nil {
		return nil, ErrNotStarted
	}
	next := e.cur
	next.letters = e.shuffled(e.cur.letters)
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	return append([]string(nil), next.letters...), nil
}

// AddWord records a word found by playerID (empty for an unattributed
// submission).
func (e *Engine) AddWord(ctx context.Context, playerID, word string) (AddResult, error) {
	if e.cur.rec == nil {
		return AddResult{}, ErrNotStarted
	}
	sol := e.cur.sol
	lang := sol.Lang
	word = strings.TrimSpace(word)
	key := sol.Key(word)
	res := AddResult{
		Word:      key,
		Tier:      words.LengthTier(word),
		Approvals: e.cur.approved,
		EndAmount: e.cur.end,
	}

	if words.Normalize(word, lang.Lang) == "" {
		res.Diagnostic = "empty word"
		metrics.RecordWord(metrics.ResultRejected)
		return res, nil
	}
	ref := letters.Build(e.cur.letters, lang.Lang)
	if short := words.Explain(word, ref, lang.Lang); len(short) > 0 {
		res.Shortfalls = short
		res.Diagnostic = words.FormatShortfalls(short)
		metrics.RecordWord(metrics.ResultRejected)
		return res, nil
	}

	res.Accepted = true
	res.Approved = sol.Approved(key)
	res.Sources = sol.Sources(key)
	res.Longest = sol.IsLongest(key)
	res.Reaction = e.reaction(sol, key)
	if _, dup := e.cur.found[key]; dup {
		res.Duplicate = true
		metrics.RecordWord(metrics.ResultDuplicate)
		return res, nil
	}

	next := e.cur.clone()
	next.found[key] = struct{}{}
	if playerID != "" {
		next.finders[key] = playerID
	}
	next.dirty = true
	if res.Approved {
		next.approved++
		if next.approved >= next.end && !next.winAck {
			next.winAck = true
			res.Win = true
		}
	}
	if err := e.commit(ctx, next); err != nil {
		return AddResult{}, err
	}
	res.Approvals = next.approved

	p := players.Patch{AddFound: key, AllTimeFound: 1}
	if res.Approved {
		p.AllTimeApproved = 1
	}
	e.credit(ctx, playerID, p)

	if res.Approved {
		metrics.RecordWord(metrics.ResultApproved)
	} else {
		metrics.RecordWord(metrics.ResultFound)
	}
	if res.Win {
		res.Standings = e.won(ctx)
	}
	return res, nil
}

// won records the win and returns the standings announced with it; nil when
// the player stats cannot be read.
func (e *Engine) won(ctx context.Context) *awards.Awards {
	metrics.RecordWin()
	log.Info().
		Int("game", e.cur.rec.GameNumber).
		Int("approved", e.cur.approved).
		Int("endAmount", e.cur.end).
		Msg("approved-word target reached")
	st, err := e.Standings(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("standings unavailable for the win")
		return nil
	}
	return &st
}

// credit applies p to a player's stats. An empty id is an unattributed
// command.
func (e *Engine) credit(ctx context.Context, id string, p players.Patch) {
	if id == "" {
		return
	}
	if _, err := e.d.Players.Upsert(ctx, id, p); err != nil {
		log.Warn().Err(err).Str("player", id).Msg("player stats not updated")
	}
}

func (e *Engine) reaction(sol *solutions.Set, key string) string {
	w, ok := sol.CustomEmoji[key]
	if !ok {
		return ""
	}
	return e.d.Config.CustomReactions[sol.Lang.Name][w]
}

// RemoveWord drops a found word. It reports false when the word was not
// found. The win acknowledgement is never reset.
func (e *Engine) RemoveWord(ctx context.Context, word string) (bool, error) {
	if e.cur.rec == nil {
		return false, ErrNotStarted
	}
	key := e.cur.sol.Key(strings.TrimSpace(word))
	if _, ok := e.cur.found[key]; !ok {
		return false, nil
	}

	next := e.cur.clone()
	delete(next.found, key)
	finder := next.finders[key]
	delete(next.finders, key)
	approved := next.sol.Approved(key)
	if approved {
		next.approved--
	}
	next.dirty = true
	if err := e.commit(ctx, next); err != nil {
		return false, err
	}

	p := players.Patch{DropFound: key, AllTimeFound: -1}
	if approved {
		p.AllTimeApproved = -1
	}
	e.credit(ctx, finder, p)
	return true, nil
}

// TryAddCommunityWord adds word to the community list of the board's
// language. Words already on that list or already approved are refused.
// When the word is buildable here it becomes a solution, and if it was
// already found it is approved retroactively.
func (e *Engine) TryAddCommunityWord(ctx context.Context, word string) (CommunityResult, error) {
	if e.cur.rec == nil {
		return CommunityResult{}, ErrNotStarted
	}
	sol := e.cur.sol
	word = strings.TrimSpace(word)
	key := sol.Key(word)
	refused := CommunityResult{Word: key}
	if words.Normalize(word, sol.Lang.Lang) == "" || sol.Approved(key) {
		return refused, nil
	}
	known, err := e.d.Community.LoadAll(ctx, sol.Lang.Name)
	if err != nil {
		return refused, err
	}
	stored := slices.ContainsFunc(known, func(w string) bool { return sol.Key(w) == key })

	next := e.cur.clone()
	next.sol = sol.Clone()
	onBoard := next.sol.AddCommunity(word)
	// A stored word is refused unless it is buildable here and not yet a
	// solution: then an earlier attempt failed its live save and is finished now.
	if stored && !onBoard {
		return refused, nil
	}
	if !stored {
		if err := e.d.Community.Append(ctx, sol.Lang.Name, word); err != nil {
			return refused, err
		}
		log.Info().Str("word", word).Str("lang", sol.Lang.Name).Bool("onBoard", onBoard).Msg("community word added")
	}
	res := CommunityResult{Word: key, Added: true, OnBoard: onBoard}
	if !onBoard {
		return res, nil
	}

	_, found := next.found[key]
	if found {
		next.approved++
		if next.approved >= next.end && !next.winAck {
			next.winAck = true
			res.Win = true
		}
	}
	if err := e.commit(ctx, next); err != nil {
		return refused, err
	}
	if !found {
		return res, nil
	}
	res.Retroactive = true
	e.credit(ctx, next.finders[key], players.Patch{AllTimeApproved: 1})
	if res.Win {
		res.Standings = e.won(ctx)
	}
	return res, nil
}

// LoadOldGame re-enters archived game index (1-based). It reports false,
// without changing anything, when index is out of range.
func (e *Engine) LoadOldGame(ctx context.Context, index int) (Entered, bool, error) {
	n, err := e.d.Archive.Len(ctx)
	if err != nil {
		return Entered{}, false, err
	}
	if index < 1 || index > n {
		return Entered{}, false, nil
	}
	prev, err := e.Standings(ctx)
	if err != nil {
		return Entered{}, false, err
	}
	if err := e.archiveOutgoing(ctx); err != nil {
		return Entered{}, false, err
	}
	rec, err := e.d.Archive.ReadAt(ctx, index)
	if err != nil {
		return Entered{}, false, err
	}
	next, err := e.build(ctx, rec, e.shuffled(rec.LettersSorted))
	if err != nil {
		return Entered{}, false, err
	}
	next.winAck = next.approved >= next.end
	ent, err := e.enter(ctx, metrics.ModeLoaded, next, prev)
	if err != nil {
		return Entered{}, false, err
	}
	return ent, true, nil
}

// SetPlannedLanguage picks the language of the next NewGame. It reports
// false for a language that is not configured.
func (e *Engine) SetPlannedLanguage(ctx context.Context, name string) (bool, error) {
	if _, ok := e.d.Config.Language(name); !ok {
		return false, nil
	}
	next := e.cur
	next.planned = name
	if err := e.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) unfoundHints(lang string) []string {
	var out []string
	for k := range e.cur.sol.Hints[lang] {
		if _, ok := e.cur.found[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Hint offers playerID a random unfound solution from the lang dictionary,
// translated when possible. It reports false when no such word is left.
func (e *Engine) Hint(ctx context.Context, playerID, lang string) (Hint, bool, error) {
	if e.cur.rec == nil {
		return Hint{}, false, ErrNotStarted
	}
	left := e.unfoundHints(lang)
	if len(left) == 0 {
		return Hint{}, false, nil
	}
	key := left[e.d.Rand.IntN(len(left))]
	h := Hint{Lang: lang, Word: e.cur.sol.Hints[lang][key]}

	target := e.d.Config.TranslationTarget(lang, e.cur.rec.Lang)
	if target != "" && e.d.Dictionary != nil {
		tr, ok, err := e.d.Dictionary.Translate(ctx, h.Word, lang, target)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("word", h.Word).Msg("translation unavailable")
		case ok:
			h.Translation = tr
			h.TransLang = target
		}
	}

	e.credit(ctx, playerID, players.Patch{AddHint: key})
	return h, true, nil
}

// Reveal lists up to n unfound hint words of lang in collation order. Out of
// range requests yield an empty list.
func (e *Engine) Reveal(lang string, n int) []string {
	if e.cur.rec == nil || n <= 0 {
		return []string{}
	}
	src, ok := e.d.Config.Language(lang)
	if !ok {
		return []string{}
	}
	hints := e.cur.sol.Hints[lang]
	list := make([]string, 0, len(hints))
	for _, k := range e.unfoundHints(lang) {
		list = append(list, hints[k])
	}
	list = letters.Sorted(list, src.Lang)
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// Snapshot returns a read-only view of the live game.
func (e *Engine) Snapshot() View {
	v := View{
		Started:       e.cur.rec != nil,
		PlannedLang:   e.cur.planned,
		Letters:       []string{},
		FoundWords:    []string{},
		HintsLeft:     map[string]int{},
		ChangesToSave: e.cur.dirty,
		Won:           e.cur.winAck,
	}
	if e.cur.rec == nil {
		return v
	}
	v.GameNumber = e.cur.rec.GameNumber
	v.Lang = e.cur.rec.Lang
	v.Letters = append(v.Letters, e.cur.letters...)
	v.FoundWords = e.cur.foundSorted()
	v.Approvals = e.cur.approved
	v.EndAmount = e.cur.end
	v.Solutions = len(e.cur.sol.All)
	v.Wordlist = len(e.cur.sol.Wordlist)
	for lang := range e.cur.sol.Hints {
		v.HintsLeft[lang] = len(e.unfoundHints(lang))
	}
	for src := range e.cur.sol.Unavailable {
		v.Unavailable = append(v.Unavailable, src)
	}
	sort.Strings(v.Unavailable)
	return v
}

// Standings computes the awards of the current round.
func (e *Engine) Standings(ctx context.Context) (awards.Awards, error) {
	stats, err := e.d.Players.Snapshot(ctx)
	if err != nil {
		return awards.Awards{}, fmt.Errorf("player snapshot: %w", err)
	}
	return awards.Compute(stats), nil
}

// ProgressBar renders the approval progress with today's emoji scale.
func (e *Engine) ProgressBar() string {
	if e.cur.rec == nil {
		return ""
	}
	lang := e.cur.sol.Lang.Lang
	scale := emoji.SelectScale(e.cur.letters, lang, e.d.Now(), e.d.Config.Emoji)
	return emoji.ProgressBar(scale, e.cur.approved, e.cur.end, e.d.Config.ProgressCells)
}
