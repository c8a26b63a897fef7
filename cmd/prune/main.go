// Command prune drops per-day lookup buckets older than the configured
// retention period. The in-process scheduler does the same work; this
// binary exists for external cron setups and one-off runs.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/wordtrace/internal/adapter/postgres"
	"github.com/heartmarshall/wordtrace/internal/adapter/postgres/wordstats"
	"github.com/heartmarshall/wordtrace/internal/app"
	"github.com/heartmarshall/wordtrace/internal/config"
	"github.com/heartmarshall/wordtrace/internal/service/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	statsSvc := stats.NewService(logger, wordstats.New(pool, logger))

	cutoff := time.Now().AddDate(0, 0, -cfg.Retention.Days)

	changed, err := statsSvc.PruneOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("prune failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		os.Exit(1)
	}

	logger.Info("prune completed",
		slog.Int("changed", changed),
		slog.Time("cutoff", cutoff),
	)
}
