// Package metrics registers the Prometheus collectors of the game server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	wordsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "szokereso_words_submitted_total",
			Help: "Submitted words by outcome",
		},
		[]string{"result"},
	)

	gamesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "szokereso_games_started_total",
			Help: "Games entered, by language and how they were entered",
		},
		[]string{"language", "mode"},
	)

	wins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "szokereso_wins_total",
			Help: "Games in which the approved-word target was reached",
		},
	)

	solutions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "szokereso_solutions",
			Help: "Approved solutions on the current board",
		},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "szokereso_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "szokereso_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)
)

// Word outcomes.
const (
	ResultApproved  = "approved"
	ResultFound     = "found"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
)

// Game entry modes.
const (
	ModeDrawn  = "drawn"
	ModeReused = "reused"
	ModeLoaded = "loaded"
)

func RecordWord(result string) { wordsSubmitted.WithLabelValues(result).Inc() }

func RecordGame(language, mode string) { gamesStarted.WithLabelValues(language, mode).Inc() }

func RecordWin() { wins.Inc() }

func SetSolutions(n int) { solutions.Set(float64(n)) }

// Middleware counts requests by their chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
