// Package wordstats implements word-record persistence using PostgreSQL.
// The words table is a key-value mapping from normalized word to its full
// record; daily statistics live in a JSONB column. Writes are full-record
// overwrites (INSERT ... ON CONFLICT DO UPDATE) — callers read-modify-write.
package wordstats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/wordtrace/internal/adapter/postgres"
	"github.com/heartmarshall/wordtrace/internal/domain"
)

var columns = []string{"word", "count", "translation", "stats", "last_seen", "last_url"}

// Repo provides word-record persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.Querier
	log *slog.Logger
	sb  sq.StatementBuilderType
}

// New creates a new word-record repository.
func New(db postgres.Querier, logger *slog.Logger) *Repo {
	return &Repo{
		db:  db,
		log: logger.With("adapter", "wordstats"),
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the record for a normalized word, or domain.ErrNotFound.
// A stats blob that fails to decode is replaced by an empty map: a damaged
// history must not block further lookups of the word.
func (r *Repo) Get(ctx context.Context, word string) (*domain.WordRecord, error) {
	sqlStr, args, err := r.sb.Select(columns...).From("words").Where(sq.Eq{"word": word}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	row := r.db.QueryRow(ctx, sqlStr, args...)

	rec, statsErr, err := scanWordRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "word", word)
	}
	if statsErr != nil {
		r.log.WarnContext(ctx, "malformed stats blob, resetting",
			slog.String("word", word),
			slog.String("error", statsErr.Error()),
		)
		rec.Stats = map[string]int{}
	}

	return rec, nil
}

// GetMany returns records for the given normalized words. Missing words are
// simply absent from the result; rows with undecodable stats are skipped.
func (r *Repo) GetMany(ctx context.Context, words []string) ([]domain.WordRecord, error) {
	if len(words) == 0 {
		return []domain.WordRecord{}, nil
	}

	sqlStr, args, err := r.sb.Select(columns...).From("words").
		Where(sq.Eq{"word": words}).OrderBy("word").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get-many query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("get words: %w", err)
	}
	defer rows.Close()

	return r.collectRecords(ctx, rows)
}

// All returns every stored record, ordered by word. Rows whose stats blob
// does not decode are skipped with a warning rather than failing the batch.
func (r *Repo) All(ctx context.Context) ([]domain.WordRecord, error) {
	sqlStr, args, err := r.sb.Select(columns...).From("words").OrderBy("word").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build all query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("get all words: %w", err)
	}
	defer rows.Close()

	return r.collectRecords(ctx, rows)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert writes the full record under its word key, overwriting any previous
// version.
func (r *Repo) Upsert(ctx context.Context, rec domain.WordRecord) error {
	stats := rec.Stats
	if stats == nil {
		stats = map[string]int{}
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	var lastSeen any
	if !rec.LastSeen.IsZero() {
		lastSeen = rec.LastSeen
	}

	sqlStr, args, err := r.sb.Insert("words").
		Columns(columns...).
		Values(rec.Word, rec.Count, rec.Translation, statsJSON, lastSeen, rec.LastURL).
		Suffix(`ON CONFLICT (word) DO UPDATE SET
			count = EXCLUDED.count,
			translation = EXCLUDED.translation,
			stats = EXCLUDED.stats,
			last_seen = EXCLUDED.last_seen,
			last_url = EXCLUDED.last_url`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return postgres.MapError(err, "word", rec.Word)
	}

	return nil
}

// UpsertMany writes each record in turn. Records are independent full
// overwrites; a failure stops the batch and reports the failing word.
func (r *Repo) UpsertMany(ctx context.Context, recs []domain.WordRecord) error {
	for _, rec := range recs {
		if err := r.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a record by word. Returns domain.ErrNotFound if 0 rows affected.
func (r *Repo) Delete(ctx context.Context, word string) error {
	sqlStr, args, err := r.sb.Delete("words").Where(sq.Eq{"word": word}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "word", word)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %q: %w", word, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// collectRecords scans all rows, skipping records with undecodable stats.
func (r *Repo) collectRecords(ctx context.Context, rows pgx.Rows) ([]domain.WordRecord, error) {
	records := []domain.WordRecord{}
	for rows.Next() {
		rec, statsErr, err := scanWordRecord(rows)
		if err != nil {
			return nil, err
		}
		if statsErr != nil {
			r.log.WarnContext(ctx, "skipping record with malformed stats",
				slog.String("word", rec.Word),
				slog.String("error", statsErr.Error()),
			)
			continue
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// scanWordRecord scans one row. The second return value reports a stats
// decode failure separately so callers can choose to skip or reset.
func scanWordRecord(row pgx.Row) (*domain.WordRecord, error, error) {
	var (
		rec      domain.WordRecord
		statsRaw []byte
		lastSeen *time.Time
	)

	if err := row.Scan(&rec.Word, &rec.Count, &rec.Translation, &statsRaw, &lastSeen, &rec.LastURL); err != nil {
		return nil, nil, err
	}

	if lastSeen != nil {
		rec.LastSeen = *lastSeen
	}

	rec.Stats = map[string]int{}
	if len(statsRaw) > 0 {
		if err := json.Unmarshal(statsRaw, &rec.Stats); err != nil {
			return &rec, err, nil
		}
		if rec.Stats == nil { // JSON null
			rec.Stats = map[string]int{}
		}
	}

	return &rec, nil, nil
}
