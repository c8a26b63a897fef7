package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/heartmarshall/wordtrace/internal/adapter/postgres"
	"github.com/heartmarshall/wordtrace/internal/adapter/postgres/wordstats"
	"github.com/heartmarshall/wordtrace/internal/adapter/provider/gtranslate"
	"github.com/heartmarshall/wordtrace/internal/config"
	"github.com/heartmarshall/wordtrace/internal/highlight"
	"github.com/heartmarshall/wordtrace/internal/service/lookup"
	"github.com/heartmarshall/wordtrace/internal/service/stats"
	"github.com/heartmarshall/wordtrace/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, runs migrations and the startup retention pass, wires the
// services, and serves the REST API until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting wordtrace",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	store := wordstats.New(pool, logger)
	translator := gtranslate.New(cfg.Translator, logger)
	lookupSvc := lookup.NewService(logger, store, translator, nil)
	statsSvc := stats.NewService(logger, store)
	engine := highlight.New(logger, cfg.Highlight.MaxTextNodes)

	// Retention pass at startup; a pruning failure is not fatal to the server.
	prune := func() {
		pruneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		cutoff := time.Now().AddDate(0, 0, -cfg.Retention.Days)
		if _, err := statsSvc.PruneOlderThan(pruneCtx, cutoff); err != nil {
			logger.Error("retention prune failed", slog.String("error", err.Error()))
		}
	}
	prune()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Retention.Schedule, prune); err != nil {
		return fmt.Errorf("schedule retention prune: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := rest.NewRouter(logger, cfg.CORS, rest.Handlers{
		Lookup:    rest.NewLookupHandler(logger, lookupSvc),
		Words:     rest.NewWordsHandler(logger, statsSvc),
		Highlight: rest.NewHighlightHandler(logger, engine, statsSvc),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
