// internal/httpserver/routes_words.go
//
// Player endpoints. All of them require a valid bearer token; the token's
// subject is the player credited with found words and hints.
//
// Endpoints:
//   POST   /words          → submit {word}
//   DELETE /words/{word}   → remove a found word
//   POST   /community      → propose {word} for the community list
//   POST   /hints          → ask for a hint in {lang}
//   GET    /players/me     → the caller's stats

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/szokereso/internal/game"
)

func (s *Server) mountWords(r chi.Router) {
	r.Post("/words", s.handleAddWord)
	r.Delete("/words/{word}", s.handleRemoveWord)
	r.Post("/community", s.handleCommunity)
	r.Post("/hints", s.handleHint)
	r.Get("/players/me", s.handleMe)
}

type wordReq struct {
	Word string `json:"word"`
}

func decodeWord(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req wordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return "", false
	}
	return req.Word, true
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	word, ok := decodeWord(w, r)
	if !ok {
		return
	}
	me := currentPlayer(r)
	var res game.AddResult
	err := s.table.Exec(func(e *game.Engine) (err error) {
		res, err = e.AddWord(r.Context(), me.ID, word)
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	var removed bool
	err := s.table.Exec(func(e *game.Engine) (err error) {
		removed, err = e.RemoveWord(r.Context(), word)
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !removed {
		jsonError(w, http.StatusNotFound, "not_found")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"removed": true})
}

func (s *Server) handleCommunity(w http.ResponseWriter, r *http.Request) {
	word, ok := decodeWord(w, r)
	if !ok {
		return
	}
	var res game.CommunityResult
	err := s.table.Exec(func(e *game.Engine) (err error) {
		res, err = e.TryAddCommunityWord(r.Context(), word)
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

type hintReq struct {
	Lang string `json:"lang"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	me := currentPlayer(r)
	var (
		h  game.Hint
		ok bool
	)
	err := s.table.Exec(func(e *game.Engine) (err error) {
		h, ok, err = e.Hint(r.Context(), me.ID, req.Lang)
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "no_hints")
		return
	}
	_ = json.NewEncoder(w).Encode(h)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me := currentPlayer(r)
	st, err := s.players.Get(r.Context(), me.ID)
	if err != nil {
		engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}
