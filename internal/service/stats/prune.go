package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// ---------------------------------------------------------------------------
// Retention
// ---------------------------------------------------------------------------

// PruneOlderThan drops day buckets older than cutoff from every record and
// persists only the records that actually shrank. Lifetime counts are never
// reduced. It returns the number of records rewritten.
func (s *Service) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	recs, err := s.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}

	var changed []domain.WordRecord
	for i := range recs {
		if recs[i].PruneStatsBefore(cutoff, s.loc) {
			changed = append(changed, recs[i])
		}
	}

	if len(changed) == 0 {
		s.log.InfoContext(ctx, "retention pass clean", "records", len(recs))
		return 0, nil
	}

	if err := s.store.UpsertMany(ctx, changed); err != nil {
		return 0, fmt.Errorf("persist pruned records: %w", err)
	}

	s.log.InfoContext(ctx, "retention pass pruned",
		"records", len(recs),
		"changed", len(changed),
		"cutoff", domain.DayKey(cutoff, s.loc),
	)
	return len(changed), nil
}
