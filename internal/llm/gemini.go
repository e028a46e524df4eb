package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

var errMissingKey = errors.New("api key is not set")

// Gemini calls the Gemini generateContent API through the genai SDK.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration

	mu     sync.Mutex
	client *genai.Client
}

func NewGemini(apiKey, model, baseURL string, timeout time.Duration) *Gemini {
	return &Gemini{apiKey: apiKey, model: model, baseURL: baseURL, timeout: timeout}
}

func (g *Gemini) Provider() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", ErrUnavailable, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", ErrUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini: no candidates", ErrBadResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini: empty text", ErrBadResponse)
	}
	return text, nil
}

// getClient builds the SDK client on first use so that a missing key is
// reported per request instead of at startup.
func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, errMissingKey
	}

	cc := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}
