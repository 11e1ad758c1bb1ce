package llm

import (
	"context"
	"errors"
)

// Client abstracts chat-completion LLM providers.
type Client interface {
	// Chat sends a system and user prompt and returns the raw model text.
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrNotConfigured is returned by constructors when the provider credential
// is missing or malformed.
var ErrNotConfigured = errors.New("llm client not configured")
