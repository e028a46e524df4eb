// Package llm talks to the hosted language model that writes the assistant's replies.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayeshastore/ayesha/internal/config"
)

var (
	// ErrUnavailable covers transport failures, timeouts, missing credentials
	// and non-success responses from the provider.
	ErrUnavailable = errors.New("completion gateway unavailable")
	// ErrBadResponse means the provider answered but the reply could not be used.
	ErrBadResponse = errors.New("completion gateway returned an unusable response")
)

// Gateway turns a fully assembled prompt into reply text.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// New builds the gateway selected by cfg.LLMProvider. Credentials are not
// checked here; a missing key fails the first Complete call.
func New(cfg *config.Config) (Gateway, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.LLMTimeout), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.LLMTimeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
