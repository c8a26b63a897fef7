package wordstats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

func newTestRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mock, logger), mock
}

func expectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func wordRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"word", "count", "translation", "stats", "last_seen", "last_url"})
}

func TestRepo_Get(t *testing.T) {
	lastSeen := time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setup     func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantStats map[string]int
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := wordRows().
					AddRow("cat", 5, "猫", []byte(`{"2024-02-05":5}`), &lastSeen, "https://example.com")
				mock.ExpectQuery(`SELECT word, count, translation, stats, last_seen, last_url FROM words WHERE`).
					WithArgs("cat").
					WillReturnRows(rows)
			},
			wantStats: map[string]int{"2024-02-05": 5},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM words WHERE`).
					WithArgs("cat").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "malformed stats reset to empty",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := wordRows().
					AddRow("cat", 5, "", []byte(`not json`), (*time.Time)(nil), "")
				mock.ExpectQuery(`SELECT .* FROM words WHERE`).
					WithArgs("cat").
					WillReturnRows(rows)
			},
			wantStats: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepo(t)
			tt.setup(mock)

			rec, err := repo.Get(context.Background(), "cat")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Get() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if rec.Word != "cat" || rec.Count != 5 {
					t.Errorf("Get() = %+v", rec)
				}
				if len(rec.Stats) != len(tt.wantStats) {
					t.Errorf("Get() stats = %v, want %v", rec.Stats, tt.wantStats)
				}
			}

			expectationsWereMet(t, mock)
		})
	}
}

func TestRepo_All_SkipsMalformedStats(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := wordRows().
		AddRow("cat", 5, "猫", []byte(`{"2024-02-05":5}`), (*time.Time)(nil), "").
		AddRow("damaged", 2, "", []byte(`{broken`), (*time.Time)(nil), "").
		AddRow("dog", 1, "", []byte(`{}`), (*time.Time)(nil), "")
	mock.ExpectQuery(`SELECT .* FROM words ORDER BY word`).WillReturnRows(rows)

	records, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("All() returned %d records, want 2 (malformed skipped)", len(records))
	}
	if records[0].Word != "cat" || records[1].Word != "dog" {
		t.Errorf("All() = %v", records)
	}

	expectationsWereMet(t, mock)
}

func TestRepo_GetMany(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := wordRows().
		AddRow("cat", 5, "", []byte(`{}`), (*time.Time)(nil), "")
	mock.ExpectQuery(`SELECT .* FROM words WHERE word IN`).
		WithArgs("cat", "missing").
		WillReturnRows(rows)

	records, err := repo.GetMany(context.Background(), []string{"cat", "missing"})
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(records) != 1 || records[0].Word != "cat" {
		t.Errorf("GetMany() = %v", records)
	}

	expectationsWereMet(t, mock)
}

func TestRepo_GetMany_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	records, err := repo.GetMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("GetMany(nil) = %v, want empty", records)
	}

	expectationsWereMet(t, mock)
}

func TestRepo_Upsert(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`INSERT INTO words .* ON CONFLICT \(word\) DO UPDATE`).
		WithArgs("cat", 6, "猫", pgxmock.AnyArg(), pgxmock.AnyArg(), "https://example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := domain.WordRecord{
		Word:        "cat",
		Count:       6,
		Translation: "猫",
		Stats:       map[string]int{"2024-02-05": 6},
		LastSeen:    time.Now(),
		LastURL:     "https://example.com",
	}
	if err := repo.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestRepo_UpsertMany_StopsOnError(t *testing.T) {
	repo, mock := newTestRepo(t)

	anyArgs := []any{
		pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
	}
	mock.ExpectExec(`INSERT INTO words`).
		WithArgs(anyArgs...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO words`).
		WithArgs(anyArgs...).
		WillReturnError(errors.New("connection reset"))

	recs := []domain.WordRecord{
		{Word: "a", Stats: map[string]int{}},
		{Word: "b", Stats: map[string]int{}},
	}
	err := repo.UpsertMany(context.Background(), recs)
	if err == nil {
		t.Fatal("UpsertMany() expected error")
	}

	expectationsWereMet(t, mock)
}

func TestRepo_Delete(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM words WHERE`).
					WithArgs("cat").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM words WHERE`).
					WithArgs("cat").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepo(t)
			tt.setup(mock)

			err := repo.Delete(context.Background(), "cat")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			expectationsWereMet(t, mock)
		})
	}
}
