package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// ---------------------------------------------------------------------------
// ProcessWord
// ---------------------------------------------------------------------------

// ProcessWord runs the full lookup pipeline for one selection. Invalid
// input is dropped silently: the result is (nil, nil) and nothing is
// stored. Translation resolution never fails the pipeline; when the
// upstream is unavailable the record is persisted with the
// domain.TranslationUnavailable sentinel so a later lookup retries it.
func (s *Service) ProcessWord(ctx context.Context, input LookupInput) (*domain.WordRecord, error) {
	if !domain.IsValidWord(input.Word) {
		s.log.DebugContext(ctx, "selection rejected", "word", input.Word)
		return nil, nil
	}

	word := domain.NormalizeWord(input.Word)

	record, err := s.store.Get(ctx, word)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		record = domain.NewWordRecord(word)
	default:
		return nil, fmt.Errorf("load record: %w", err)
	}

	record.RecordLookup(s.now(), s.loc, input.PageURL)

	if record.NeedsTranslation() {
		record.Translation = s.translator.Translate(ctx, word)
	}

	if err := s.store.Upsert(ctx, *record); err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}

	s.log.InfoContext(ctx, "word recorded",
		"word", word,
		"count", record.Count,
	)

	if s.notifier != nil {
		s.notifier.NotifyResult(ctx, record)
	}

	return record, nil
}
