// Package providers wraps the LLM backends the LLM agent can talk to.
package providers

import (
	"context"
	"fmt"
	"strings"
)

const (
	OpenAI = "openai"
	Gemini = "gemini"
)

// Client completes a prompt with a model
type Client interface {
	// Complete sends prompt to model. systemPrompt and history may be empty.
	Complete(ctx context.Context, model string, prompt string, systemPrompt string, history []string) (string, error)
}

type ProviderParams struct {
	BaseURL string
	APIKey  string
}

type ProviderOption func(*ProviderParams)

// WithBaseURL overrides the endpoint; an empty value keeps the default
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		if baseURL != "" {
			p.BaseURL = baseURL
		}
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		if apiKey != "" {
			p.APIKey = apiKey
		}
	}
}

// New builds the client for the named provider
func New(ctx context.Context, name string, opts ...ProviderOption) (Client, error) {
	switch strings.ToLower(name) {
	case OpenAI:
		return OpenAi(ctx, opts...), nil
	case Gemini:
		return GeminiClientFromOptions(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// buildPrompt flattens the system prompt and history into one text block for
// backends that only take plain contents
func buildPrompt(prompt string, systemPrompt string, history []string) string {
	var b strings.Builder
	if systemPrompt != "" {
		b.WriteString(systemPrompt)
		b.WriteString("\n\n")
	}
	if len(history) > 0 {
		b.WriteString("Here is what you remember:\n")
		b.WriteString(strings.Join(history, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(prompt)
	return b.String()
}
