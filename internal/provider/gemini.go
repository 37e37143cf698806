package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"relaybot/internal/domain"
)

// Gemini implements domain.Provider against the Gemini API. The client is
// stateless per call and safe for concurrent use.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

type GeminiConfig struct {
	APIKey string
	Model  string
	Logger *slog.Logger
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger,
	}, nil
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.model }

// Generate issues exactly one GenerateContent request. API-level failures
// are wrapped in *domain.ProviderError; anything else passes through as-is.
func (g *Gemini) Generate(ctx context.Context, text string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return "", g.classify(err)
	}
	return resp.Text(), nil
}

// Healthy issues a minimal generation request to verify credentials and
// connectivity. Used by the doctor command, never on the message path.
func (g *Gemini) Healthy(ctx context.Context) error {
	_, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text("ping"), nil)
	if err != nil {
		return g.classify(err)
	}
	return nil
}

// classify wraps provider-reported failures in *domain.ProviderError so the
// pipeline can distinguish them from unexpected local errors.
func (g *Gemini) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{
			Provider: g.Name(),
			Code:     apiErr.Code,
			Status:   apiErr.Status,
			Err:      err,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &domain.ProviderError{
			Provider: g.Name(),
			Code:     apiErrPtr.Code,
			Status:   apiErrPtr.Status,
			Err:      err,
		}
	}
	return fmt.Errorf("gemini generate: %w", err)
}
