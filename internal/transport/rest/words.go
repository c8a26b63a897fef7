package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordtrace/internal/domain"
	"github.com/heartmarshall/wordtrace/internal/service/stats"
)

// statsService defines the read-side operations the handler needs.
type statsService interface {
	All(ctx context.Context) ([]domain.WordRecord, error)
	TopToday(ctx context.Context, limit int) ([]domain.WordRecord, error)
	TopAllTime(ctx context.Context, limit int) ([]domain.WordRecord, error)
	Search(ctx context.Context, query string) ([]domain.WordRecord, error)
	DailyTrend(ctx context.Context, days int) ([]stats.TrendPoint, error)
	Delete(ctx context.Context, word string) error
}

// WordsHandler serves the word listing, search, trend, and delete
// endpoints.
type WordsHandler struct {
	log *slog.Logger
	svc statsService
}

// NewWordsHandler creates a WordsHandler.
func NewWordsHandler(logger *slog.Logger, svc statsService) *WordsHandler {
	return &WordsHandler{
		log: logger.With("handler", "words"),
		svc: svc,
	}
}

// WordsResponse wraps a record list.
type WordsResponse struct {
	Words []domain.WordRecord `json:"words"`
}

// List handles GET /api/words.
func (h *WordsHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.All(r.Context())
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, WordsResponse{Words: emptyIfNil(recs)})
}

// Today handles GET /api/words/today.
func (h *WordsHandler) Today(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.TopToday(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, WordsResponse{Words: emptyIfNil(recs)})
}

// Top handles GET /api/words/top.
func (h *WordsHandler) Top(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.TopAllTime(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, WordsResponse{Words: emptyIfNil(recs)})
}

// Search handles GET /api/words/search?q=...
func (h *WordsHandler) Search(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, WordsResponse{Words: emptyIfNil(recs)})
}

// TrendResponse wraps the per-day aggregation.
type TrendResponse struct {
	Trend []stats.TrendPoint `json:"trend"`
}

// Trend handles GET /api/words/trend?days=...
func (h *WordsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.DailyTrend(r.Context(), queryInt(r, "days"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, TrendResponse{Trend: points})
}

// Delete handles DELETE /api/words/{word}.
func (h *WordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	if err := h.svc.Delete(r.Context(), word); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// emptyIfNil keeps list responses as [] rather than null.
func emptyIfNil(recs []domain.WordRecord) []domain.WordRecord {
	if recs == nil {
		return []domain.WordRecord{}
	}
	return recs
}
