// Command highlight annotates an HTML document with the tracked
// vocabulary, or strips previous annotations. The document is read from a
// file or stdin and the result is written to a file or stdout.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/net/html"

	"github.com/heartmarshall/wordtrace/internal/adapter/postgres"
	"github.com/heartmarshall/wordtrace/internal/adapter/postgres/wordstats"
	"github.com/heartmarshall/wordtrace/internal/app"
	"github.com/heartmarshall/wordtrace/internal/config"
	"github.com/heartmarshall/wordtrace/internal/highlight"
)

func main() {
	inFlag := flag.String("in", "", "input HTML file (default stdin)")
	outFlag := flag.String("out", "", "output file (default stdout)")
	removeFlag := flag.Bool("remove", false, "strip annotations instead of adding them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	input := io.Reader(os.Stdin)
	if *inFlag != "" {
		f, err := os.Open(*inFlag)
		if err != nil {
			logger.Error("open input", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	doc, err := html.Parse(input)
	if err != nil {
		logger.Error("parse html", slog.String("error", err.Error()))
		os.Exit(1)
	}

	engine := highlight.New(logger, cfg.Highlight.MaxTextNodes)

	var marks int
	if *removeFlag {
		marks = engine.Remove(doc)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		recs, err := wordstats.New(pool, logger).All(ctx)
		if err != nil {
			logger.Error("load words", slog.String("error", err.Error()))
			os.Exit(1)
		}

		marks = engine.Apply(doc, recs)
	}

	output := io.Writer(os.Stdout)
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			logger.Error("create output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		output = f
	}

	if err := html.Render(output, doc); err != nil {
		logger.Error("render html", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done", slog.Int("marks", marks), slog.Bool("remove", *removeFlag))
}
