// internal/httpserver/server.go
//
// HTTP transport for the game engine.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     metrics, JSON, CORS).
//   - Public endpoints: "/", "/health", "/metrics", the game view, awards and
//     hint reveals.
//   - Game control: new game, shuffle, load an archived game, planned language.
//   - Player endpoints (require auth): words, community words, hints, own stats.
//
// Notes:
//   - Every engine call goes through game.Table, so commands are serialized.
//   - Rejected words are 200 responses carrying the structured result; only
//     transport and storage failures are HTTP errors.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/szokereso/internal/game"
	"github.com/robalobadob/szokereso/internal/metrics"
	"github.com/robalobadob/szokereso/internal/players"
)

// Options configure a Server.
type Options struct {
	JWTSecret    []byte
	ClientOrigin string // CORS origin; empty disables CORS headers
}

// Server bundles the router, the game table and the player store.
type Server struct {
	r       *chi.Mux
	table   *game.Table
	players players.Store
	secret  []byte
	origin  string
}

// New constructs a Server, installs middleware, and registers routes.
func New(table *game.Table, ps players.Store, opts Options) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		table:   table,
		players: ps,
		secret:  opts.JWTSecret,
		origin:  opts.ClientOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(metrics.Middleware)              // request counters by route pattern
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"szokereso","endpoints":["/health","/metrics","/game","/words","/community","/hints","/awards"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountGame(r)
		s.mountWords(r.With(s.requireAuth()))
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows a single configured origin to call the API with credentials.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
