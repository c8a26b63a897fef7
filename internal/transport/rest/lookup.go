package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordtrace/internal/domain"
	"github.com/heartmarshall/wordtrace/internal/service/lookup"
)

// lookupService defines the lookup operations the handler needs.
type lookupService interface {
	ProcessWord(ctx context.Context, input lookup.LookupInput) (*domain.WordRecord, error)
}

// LookupHandler serves the lookup endpoint.
type LookupHandler struct {
	log *slog.Logger
	svc lookupService
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(logger *slog.Logger, svc lookupService) *LookupHandler {
	return &LookupHandler{
		log: logger.With("handler", "lookup"),
		svc: svc,
	}
}

// LookupRequest is the JSON body for POST /api/lookup.
type LookupRequest struct {
	Word string `json:"word"`
	URL  string `json:"url,omitempty"`
}

// Lookup records one word selection. Invalid selections are dropped
// quietly with 204 so the caller never has to special-case them.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json body"})
		return
	}

	rec, err := h.svc.ProcessWord(r.Context(), lookup.LookupInput{
		Word:    req.Word,
		PageURL: req.URL,
	})
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
