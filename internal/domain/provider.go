package domain

import (
	"context"
	"fmt"
)

// Provider is the interface the generative-language client must implement.
// Generate issues exactly one request per call; it never retries.
type Provider interface {
	Generate(ctx context.Context, text string) (string, error)
	Name() string
	Model() string
	Healthy(ctx context.Context) error
}

// ProviderError is a failure reported by the provider itself (rate limit,
// quota, malformed request, ...), as opposed to an unexpected local failure.
// The pipeline matches on it with errors.As to pick the user-facing apology.
type ProviderError struct {
	Provider string
	Code     int    // HTTP status code when known, 0 otherwise
	Status   string // provider status string, e.g. "RESOURCE_EXHAUSTED"
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("provider %s: %s (HTTP %d): %v", e.Provider, e.Status, e.Code, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
