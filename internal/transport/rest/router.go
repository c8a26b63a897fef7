// Package rest exposes the HTTP API: lookup recording, word listings and
// aggregations, HTML highlighting, and health probes.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordtrace/internal/config"
	"github.com/heartmarshall/wordtrace/internal/transport/middleware"
)

// Handlers groups the endpoint handlers wired into the router.
type Handlers struct {
	Lookup    *LookupHandler
	Words     *WordsHandler
	Highlight *HighlightHandler
	Health    *HealthHandler
}

// NewRouter builds the HTTP routing table with the standard middleware
// chain applied to every route.
func NewRouter(logger *slog.Logger, corsCfg config.CORSConfig, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /api/lookup", h.Lookup.Lookup)

	mux.HandleFunc("GET /api/words", h.Words.List)
	mux.HandleFunc("GET /api/words/today", h.Words.Today)
	mux.HandleFunc("GET /api/words/top", h.Words.Top)
	mux.HandleFunc("GET /api/words/search", h.Words.Search)
	mux.HandleFunc("GET /api/words/trend", h.Words.Trend)
	mux.HandleFunc("DELETE /api/words/{word}", h.Words.Delete)

	mux.HandleFunc("POST /api/highlight", h.Highlight.Apply)
	mux.HandleFunc("POST /api/highlight/remove", h.Highlight.Remove)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(corsCfg),
	)
	return chain(mux)
}
