package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heartmarshall/wordtrace/internal/domain"
	"github.com/heartmarshall/wordtrace/internal/service/lookup"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type lookupServiceMock struct {
	ProcessWordFunc func(ctx context.Context, input lookup.LookupInput) (*domain.WordRecord, error)
}

func (m *lookupServiceMock) ProcessWord(ctx context.Context, input lookup.LookupInput) (*domain.WordRecord, error) {
	if m.ProcessWordFunc != nil {
		return m.ProcessWordFunc(ctx, input)
	}
	return nil, nil
}

func TestLookup_RecordsWord(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		ProcessWordFunc: func(_ context.Context, input lookup.LookupInput) (*domain.WordRecord, error) {
			if input.Word != "cat" {
				t.Errorf("expected word cat, got %q", input.Word)
			}
			if input.PageURL != "https://example.com" {
				t.Errorf("expected page url, got %q", input.PageURL)
			}
			rec := domain.NewWordRecord("cat")
			rec.Count = 1
			rec.Translation = "猫"
			return rec, nil
		},
	}
	h := NewLookupHandler(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/api/lookup",
		strings.NewReader(`{"word":"cat","url":"https://example.com"}`))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp domain.WordRecord
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Word != "cat" || resp.Translation != "猫" {
		t.Errorf("unexpected record: %+v", resp)
	}
}

func TestLookup_InvalidWordIs204(t *testing.T) {
	t.Parallel()

	h := NewLookupHandler(testLogger(), &lookupServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/lookup",
		strings.NewReader(`{"word":"c@t"}`))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestLookup_BadJSON(t *testing.T) {
	t.Parallel()

	h := NewLookupHandler(testLogger(), &lookupServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/lookup", strings.NewReader(`{word`))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestLookup_ServiceError(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		ProcessWordFunc: func(context.Context, lookup.LookupInput) (*domain.WordRecord, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := NewLookupHandler(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/api/lookup", strings.NewReader(`{"word":"cat"}`))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
