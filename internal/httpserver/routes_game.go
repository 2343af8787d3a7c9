// internal/httpserver/routes_game.go
//
// Game control and read-only game endpoints.
//
// Endpoints:
//   GET  /game            → live game view + progress bar
//   POST /game/new        → archive the live game, start the next one
//   POST /game/shuffle    → reorder the board
//   POST /game/load       → re-enter archived game {index}
//   PUT  /game/language   → planned language of the next game {lang}
//   GET  /hints/{lang}    → reveal up to ?n= unfound hint words (default 5)
//   GET  /awards          → standings of the current round

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/szokereso/internal/awards"
	"github.com/robalobadob/szokereso/internal/game"
)

func (s *Server) mountGame(r chi.Router) {
	r.Get("/game", s.handleView)
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/shuffle", s.handleShuffle)
	r.Post("/game/load", s.handleLoad)
	r.Put("/game/language", s.handleLanguage)
	r.Get("/hints/{lang}", s.handleReveal)
	r.Get("/awards", s.handleAwards)
}

// jsonError writes {"error": code} with status.
func jsonError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// engineError maps engine failures onto HTTP errors.
func engineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, game.ErrNotStarted) {
		jsonError(w, http.StatusConflict, "no_game")
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("engine command failed")
	jsonError(w, http.StatusInternalServerError, "internal")
}

type viewRes struct {
	game.View
	ProgressBar string `json:"progressBar"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var res viewRes
	_ = s.table.Exec(func(e *game.Engine) error {
		res = viewRes{View: e.Snapshot(), ProgressBar: e.ProgressBar()}
		return nil
	})
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var res game.Entered
	err := s.table.Exec(func(e *game.Engine) (err error) {
		res, err = e.NewGame(r.Context())
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	var board []string
	err := s.table.Exec(func(e *game.Engine) (err error) {
		board, err = e.ShuffleLetters(r.Context())
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string][]string{"letters": board})
}

type loadReq struct {
	Index int `json:"index"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var (
		res game.Entered
		ok  bool
	)
	err := s.table.Exec(func(e *game.Engine) (err error) {
		res, ok, err = e.LoadOldGame(r.Context(), req.Index)
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "no_such_game")
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

type languageReq struct {
	Lang string `json:"lang"`
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var ok bool
	err := s.table.Exec(func(e *game.Engine) (err error) {
		ok, err = e.SetPlannedLanguage(r.Context(), req.Lang)
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusBadRequest, "unknown_language")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"plannedLang": req.Lang})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	n := 5
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "bad_n")
			return
		}
		n = v
	}
	lang := chi.URLParam(r, "lang")
	var list []string
	_ = s.table.Exec(func(e *game.Engine) error {
		list = e.Reveal(lang, n)
		return nil
	})
	_ = json.NewEncoder(w).Encode(map[string]any{"lang": lang, "words": list})
}

func (s *Server) handleAwards(w http.ResponseWriter, r *http.Request) {
	var res awards.Awards
	err := s.table.Exec(func(e *game.Engine) (err error) {
		res, err = e.Standings(r.Context())
		return err
	})
	if err != nil {
		engineError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}
