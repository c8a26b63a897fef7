// Package gtranslate fetches single-word translations from the Google
// translate "gtx" endpoint. The endpoint returns a positionally nested JSON
// array; only the first string of the first segment is used.
package gtranslate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/wordtrace/internal/config"
	"github.com/heartmarshall/wordtrace/internal/domain"
)

// Client fetches translations, deduplicating concurrent requests for the
// same word: while one request is in flight, further calls for that word
// share its result, and the in-flight entry is released once it settles.
type Client struct {
	baseURL        string
	sourceLang     string
	targetLang     string
	attemptTimeout time.Duration
	maxAttempts    int
	httpClient     *http.Client
	inflight       singleflight.Group
	log            *slog.Logger
}

// New creates a Client from the translator configuration.
func New(cfg config.TranslatorConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:        cfg.BaseURL,
		sourceLang:     cfg.SourceLang,
		targetLang:     cfg.TargetLang,
		attemptTimeout: cfg.AttemptTimeout,
		maxAttempts:    cfg.MaxAttempts,
		httpClient:     &http.Client{},
		log:            logger.With("adapter", "gtranslate"),
	}
}

// Translate resolves a translation for the word. It never fails: network
// errors, timeouts, and non-2xx responses are retried up to the attempt
// budget and then degrade to domain.TranslationUnavailable. A well-formed
// 2xx response that lacks the expected nested field also yields the
// sentinel, but immediately, without consuming a retry — a malformed
// success is not a transient error.
//
// Results are not memoized here; persisting a resolved translation is the
// caller's responsibility.
//
// The flight is shared by every concurrent caller, so it is detached from
// the initiating caller's cancellation: only the per-attempt timeout can
// abort it.
func (c *Client) Translate(ctx context.Context, word string) string {
	flightCtx := context.WithoutCancel(ctx)
	result, _, _ := c.inflight.Do(word, func() (any, error) {
		return c.translateOnce(flightCtx, word), nil
	})
	return result.(string)
}

func (c *Client) translateOnce(ctx context.Context, word string) string {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		translation, retryable, err := c.attempt(ctx, word)
		if err == nil {
			return translation
		}

		if !retryable || attempt == c.maxAttempts {
			c.log.WarnContext(ctx, "translation unavailable",
				slog.String("word", word),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return domain.TranslationUnavailable
		}

		c.log.DebugContext(ctx, "translation retry",
			slog.String("word", word),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
	}
	return domain.TranslationUnavailable
}

// attempt performs one bounded request. The retryable flag distinguishes
// transient failures (network, timeout, non-2xx) from a malformed success.
func (c *Client) attempt(ctx context.Context, word string) (string, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, c.requestURL(word), nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", true, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read body: %w", err)
	}

	translation, ok := parseTranslation(body)
	if !ok {
		return "", false, fmt.Errorf("response missing translation field")
	}

	return translation, false, nil
}

func (c *Client) requestURL(word string) string {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", c.sourceLang)
	q.Set("tl", c.targetLang)
	q.Set("dt", "t")
	q.Set("q", word)
	return c.baseURL + "?" + q.Encode()
}

// parseTranslation extracts payload[0][0][0] from the gtx response shape.
func parseTranslation(body []byte) (string, bool) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return "", false
	}

	segments, ok := payload[0].([]any)
	if !ok || len(segments) == 0 {
		return "", false
	}

	first, ok := segments[0].([]any)
	if !ok || len(first) == 0 {
		return "", false
	}

	translation, ok := first[0].(string)
	if !ok || translation == "" {
		return "", false
	}

	return translation, true
}
