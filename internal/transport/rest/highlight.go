package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/net/html"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// recordLister supplies the vocabulary to annotate with.
type recordLister interface {
	All(ctx context.Context) ([]domain.WordRecord, error)
}

// highlighter annotates and strips parsed documents.
type highlighter interface {
	Apply(doc *html.Node, recs []domain.WordRecord) int
	Remove(doc *html.Node) int
}

// HighlightHandler serves the HTML annotation endpoints. Both accept an
// HTML document as the request body and respond with the transformed
// document; the number of marks touched is reported in the
// X-Highlight-Marks header.
type HighlightHandler struct {
	log    *slog.Logger
	engine highlighter
	words  recordLister
}

// NewHighlightHandler creates a HighlightHandler.
func NewHighlightHandler(logger *slog.Logger, engine highlighter, words recordLister) *HighlightHandler {
	return &HighlightHandler{
		log:    logger.With("handler", "highlight"),
		engine: engine,
		words:  words,
	}
}

// Apply handles POST /api/highlight.
func (h *HighlightHandler) Apply(w http.ResponseWriter, r *http.Request) {
	doc, err := html.Parse(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid html body"})
		return
	}

	recs, err := h.words.All(r.Context())
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	marks := h.engine.Apply(doc, recs)
	h.renderDoc(w, r, doc, marks)
}

// Remove handles POST /api/highlight/remove.
func (h *HighlightHandler) Remove(w http.ResponseWriter, r *http.Request) {
	doc, err := html.Parse(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid html body"})
		return
	}

	marks := h.engine.Remove(doc)
	h.renderDoc(w, r, doc, marks)
}

func (h *HighlightHandler) renderDoc(w http.ResponseWriter, r *http.Request, doc *html.Node, marks int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Highlight-Marks", strconv.Itoa(marks))
	if err := html.Render(w, doc); err != nil {
		h.log.ErrorContext(r.Context(), "render document", slog.String("error", err.Error()))
	}
}
