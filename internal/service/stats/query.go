package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// ---------------------------------------------------------------------------
// Read-side aggregations
// ---------------------------------------------------------------------------

// All returns every stored record ordered by word.
func (s *Service) All(ctx context.Context) ([]domain.WordRecord, error) {
	recs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return recs, nil
}

// TopToday returns the records looked up today, most-looked-up first.
// Ties break alphabetically so the order is stable.
func (s *Service) TopToday(ctx context.Context, limit int) ([]domain.WordRecord, error) {
	limit = clampLimit(limit, DefaultTodayLimit)

	recs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	today := domain.DayKey(s.now(), s.loc)

	var out []domain.WordRecord
	for _, rec := range recs {
		if rec.StatsFor(today) > 0 {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StatsFor(today), out[j].StatsFor(today)
		if a != b {
			return a > b
		}
		return out[i].Word < out[j].Word
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TopAllTime returns the records with the highest lifetime counts.
func (s *Service) TopAllTime(ctx context.Context, limit int) ([]domain.WordRecord, error) {
	limit = clampLimit(limit, DefaultAllTimeLimit)

	recs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Count != recs[j].Count {
			return recs[i].Count > recs[j].Count
		}
		return recs[i].Word < recs[j].Word
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Search returns records whose word contains the query, case-insensitively,
// ordered by word. An empty query matches everything.
func (s *Service) Search(ctx context.Context, query string) ([]domain.WordRecord, error) {
	recs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return recs, nil
	}

	var out []domain.WordRecord
	for _, rec := range recs {
		if strings.Contains(rec.Word, needle) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// TrendPoint is one day of aggregate lookup activity.
type TrendPoint struct {
	Day   string `json:"day"`
	Total int    `json:"total"`
}

// DailyTrend sums lookups per day over the last days days, today included,
// returning one point per day even when its total is zero. Records that
// predate day-bucketed history carry only a lifetime count; that count is
// attributed to today so the trend never under-reports them.
func (s *Service) DailyTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 7
	}

	recs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	now := s.now()
	today := domain.DayKey(now, s.loc)

	totals := make(map[string]int, days)
	for _, rec := range recs {
		if len(rec.Stats) == 0 {
			totals[today] += rec.Count
			continue
		}
		for day, n := range rec.Stats {
			totals[day] += n
		}
	}

	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := domain.DayKey(now.AddDate(0, 0, -i), s.loc)
		points = append(points, TrendPoint{Day: day, Total: totals[day]})
	}
	return points, nil
}
