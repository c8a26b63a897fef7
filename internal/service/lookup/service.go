// Package lookup implements the word-lookup pipeline: validate, load or
// create the record, bump counters, resolve a translation when one is
// missing, persist, and notify.
package lookup

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordStore interface {
	Get(ctx context.Context, word string) (*domain.WordRecord, error)
	Upsert(ctx context.Context, rec domain.WordRecord) error
}

type translator interface {
	Translate(ctx context.Context, word string) string
}

type resultNotifier interface {
	NotifyResult(ctx context.Context, record *domain.WordRecord)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the lookup business logic.
type Service struct {
	log        *slog.Logger
	store      wordStore
	translator translator
	notifier   resultNotifier
	now        func() time.Time
	loc        *time.Location
}

// NewService creates a new Lookup service. The notifier is optional.
func NewService(logger *slog.Logger, store wordStore, tr translator, notifier resultNotifier) *Service {
	return &Service{
		log:        logger.With("service", "lookup"),
		store:      store,
		translator: tr,
		notifier:   notifier,
		now:        time.Now,
		loc:        time.Local,
	}
}
