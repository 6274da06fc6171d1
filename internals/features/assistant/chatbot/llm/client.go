// Package llm talks to the generative-language provider behind the chatbot.
package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message of conversation context.
type Turn struct {
	Role    string
	Content string
}

type Client interface {
	Generate(ctx context.Context, system string, history []Turn) (string, error)
}

var (
	ErrDisabled      = errors.New("llm: no api key configured")
	ErrEmptyResponse = errors.New("llm: provider returned no candidates")
)

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm: provider returned %d: %s", e.StatusCode, e.Message)
}

// Disabled always fails, so callers fall back to their static reply.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, []Turn) (string, error) {
	return "", ErrDisabled
}
