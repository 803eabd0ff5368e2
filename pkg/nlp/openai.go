package nlp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/soundprediction/triago/pkg/types"
)

// OpenAIClient implements the Client interface for OpenAI's language models.
// OpenAI-compatible services work through a custom BaseURL.
type OpenAIClient struct {
	client *openai.Client
	opts   Options
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string, opts Options) (*OpenAIClient, error) {
	var client *openai.Client

	if opts.BaseURL != "" {
		if err := validateBaseURL(opts.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		// Some self-hosted services don't require authentication.
		if apiKey == "" {
			apiKey = "dummy-key"
		}

		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = opts.BaseURL

		// Many services expect "/v1" to be appended to the base URL.
		if !hasAPIPath(opts.BaseURL) {
			clientConfig.BaseURL = opts.BaseURL + "/v1"
		}

		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(apiKey)
	}

	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: client,
		opts:   opts,
	}, nil
}

// Chat sends a chat completion request to OpenAI or an OpenAI-compatible service.
func (c *OpenAIClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	req := c.buildChatRequest(messages, false)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewEmptyResponseError("no choices returned from model")
	}

	return toResponse(resp), nil
}

// ChatWithStructuredOutput sends a chat completion request with JSON output enforced.
func (c *OpenAIClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, _ any) (*types.Response, error) {
	req := c.buildChatRequest(messages, true)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("structured chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewEmptyResponseError("no choices returned from model")
	}

	return toResponse(resp), nil
}

// Close cleans up resources (no-op for OpenAI client).
func (c *OpenAIClient) Close() error {
	return nil
}

func toResponse(resp openai.ChatCompletionResponse) *types.Response {
	choice := resp.Choices[0]
	response := &types.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
	}

	// Some OpenAI-compatible services omit usage reporting.
	if resp.Usage.TotalTokens > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return response
}

func (c *OpenAIClient) buildChatRequest(messages []types.Message, structuredOutput bool) openai.ChatCompletionRequest {
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:    c.opts.Model,
		Messages: openaiMessages,
	}

	if c.opts.Temperature != nil {
		req.Temperature = *c.opts.Temperature
	}
	if c.opts.MaxTokens != nil {
		req.MaxTokens = *c.opts.MaxTokens
	}
	if len(c.opts.Stop) > 0 {
		req.Stop = c.opts.Stop
	}

	if structuredOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}

		// Compatible services tend to need the instruction spelled out.
		if c.opts.BaseURL != "" && len(req.Messages) > 0 {
			lastMessage := &req.Messages[len(req.Messages)-1]
			if lastMessage.Role == string(RoleUser) {
				lastMessage.Content += "\n\nPlease respond with valid JSON only."
			}
		}
	}

	return req
}

// validateBaseURL validates the base URL format.
func validateBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("baseURL cannot be empty")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("baseURL must use http:// or https:// scheme")
	}

	return nil
}

// hasAPIPath checks if the base URL already includes an API path component.
func hasAPIPath(baseURL string) bool {
	for _, path := range []string{"/v1", "/api"} {
		if strings.HasSuffix(strings.TrimSuffix(baseURL, "/"), path) {
			return true
		}
	}
	return false
}
