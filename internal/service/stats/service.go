// Package stats exposes read-side aggregations over stored word records
// plus the retention maintenance pass.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// Default limits applied when a caller passes limit <= 0.
const (
	DefaultTodayLimit   = 100
	DefaultAllTimeLimit = 50
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordStore interface {
	All(ctx context.Context) ([]domain.WordRecord, error)
	UpsertMany(ctx context.Context, recs []domain.WordRecord) error
	Delete(ctx context.Context, word string) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the stats business logic.
type Service struct {
	log   *slog.Logger
	store wordStore
	now   func() time.Time
	loc   *time.Location
}

// NewService creates a new Stats service.
func NewService(logger *slog.Logger, store wordStore) *Service {
	return &Service{
		log:   logger.With("service", "stats"),
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
}

// Delete removes a word and its history. A word that could never have
// been stored is rejected up front rather than reported as missing.
func (s *Service) Delete(ctx context.Context, word string) error {
	if !domain.IsValidWord(word) {
		return domain.NewValidationError("word", "must be 1-50 letters, spaces, or hyphens")
	}
	return s.store.Delete(ctx, domain.NormalizeWord(word))
}

// clampLimit defaults a non-positive limit.
func clampLimit(limit, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	return limit
}
