package completion

import (
	"context"
	"errors"
	"fmt"
)

// Provider turns a prompt into a single text completion.
// Implementations must be safe for concurrent use.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Common provider error types
var (
	ErrEmptyCompletion = errors.New("completion response has no choices")
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrMissingAPIKey   = errors.New("API key is required")
)

// ProviderError represents a failed completion call with additional context
type ProviderError struct {
	Provider   string // Provider name (e.g. "openai")
	Model      string // Model the request was sent to
	StatusCode int    // HTTP status returned by the provider, 0 if none
	Err        error  // Underlying error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion with model '%s' failed with status %d: %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion with model '%s' failed: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError returns true if err came from a completion provider
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}
