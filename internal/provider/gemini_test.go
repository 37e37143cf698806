package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"google.golang.org/genai"

	"relaybot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{Logger: testLogger()})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestClassify_APIError(t *testing.T) {
	g := &Gemini{model: "gemini-2.5-flash", logger: testLogger()}

	err := g.classify(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"})

	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *domain.ProviderError, got %T: %v", err, err)
	}
	if provErr.Code != 429 || provErr.Status != "RESOURCE_EXHAUSTED" {
		t.Errorf("lost error details: %+v", provErr)
	}
}

func TestClassify_WrappedAPIError(t *testing.T) {
	g := &Gemini{model: "gemini-2.5-flash", logger: testLogger()}

	wrapped := fmt.Errorf("generate: %w", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"})
	err := g.classify(wrapped)

	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("wrapped API error not classified: %v", err)
	}
	if provErr.Code != 400 {
		t.Errorf("got code %d, want 400", provErr.Code)
	}
}

func TestClassify_GenericError(t *testing.T) {
	g := &Gemini{model: "gemini-2.5-flash", logger: testLogger()}

	err := g.classify(errors.New("connection refused"))

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		t.Fatal("generic error should not be classified as a provider error")
	}
	if err == nil {
		t.Fatal("classify should preserve the error")
	}
}
