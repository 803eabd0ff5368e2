package nlp

import (
	"context"
	"fmt"

	"github.com/soundprediction/triago/pkg/config"
	"github.com/soundprediction/triago/pkg/types"
)

// Client defines the interface for language model operations.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, messages []types.Message) (*types.Response, error)

	// ChatWithStructuredOutput sends a chat completion request that must
	// return JSON matching the given schema hint.
	ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// Options holds per-client generation settings.
type Options struct {
	Model       string   `json:"model"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	BaseURL     string   `json:"base_url,omitempty"` // Custom base URL for OpenAI-compatible services
}

// NewClient builds a Client from configuration. The provider name selects
// the implementation; only OpenAI-compatible providers are supported.
func NewClient(cfg config.NLPConfig) (Client, error) {
	switch cfg.Provider {
	case "", "openai":
		opts := Options{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}
		if cfg.Temperature != 0 {
			t := cfg.Temperature
			opts.Temperature = &t
		}
		if cfg.MaxTokens != 0 {
			m := cfg.MaxTokens
			opts.MaxTokens = &m
		}
		return NewOpenAIClient(cfg.APIKey, opts)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidModel, cfg.Provider)
	}
}

// NewMessage creates a new message with the specified role and content.
func NewMessage(role types.Role, content string) types.Message {
	return types.Message{
		Role:    role,
		Content: content,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) types.Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) types.Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) types.Message {
	return NewMessage(RoleAssistant, content)
}
