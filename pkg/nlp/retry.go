package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soundprediction/triago/pkg/types"
)

// RetryConfig controls retry behavior for transient model failures
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt
	MaxRetries int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff
	MaxDelay time.Duration

	// BackoffMultiplier is the factor applied to the delay per retry
	BackoffMultiplier float64
}

// DefaultRetryConfig returns sensible retry defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          60 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Client with exponential backoff on retryable errors
type RetryClient struct {
	client Client
	config RetryConfig
}

// NewRetryClient wraps client with retry logic. A nil config uses
// DefaultRetryConfig; zero-valued fields are filled from the defaults.
func NewRetryClient(client Client, config *RetryConfig) Client {
	cfg := DefaultRetryConfig()
	if config != nil {
		if config.MaxRetries > 0 {
			cfg.MaxRetries = config.MaxRetries
		}
		if config.InitialDelay > 0 {
			cfg.InitialDelay = config.InitialDelay
		}
		if config.MaxDelay > 0 {
			cfg.MaxDelay = config.MaxDelay
		}
		if config.BackoffMultiplier > 0 {
			cfg.BackoffMultiplier = config.BackoffMultiplier
		}
	}

	return &RetryClient{
		client: client,
		config: cfg,
	}
}

// Chat implements Client
func (r *RetryClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	return r.retry(ctx, func() (*types.Response, error) {
		return r.client.Chat(ctx, messages)
	})
}

// ChatWithStructuredOutput implements Client
func (r *RetryClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return r.retry(ctx, func() (*types.Response, error) {
		return r.client.ChatWithStructuredOutput(ctx, messages, schema)
	})
}

// Close implements Client
func (r *RetryClient) Close() error {
	return r.client.Close()
}

func (r *RetryClient) retry(ctx context.Context, call func() (*types.Response, error)) (*types.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.delay(attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("retry aborted: %w", ctx.Err())
			}
		}

		resp, err := call()
		if err == nil {
			return resp, nil
		}
		if !isRetryableError(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// delay returns the backoff before the given retry attempt (1-based).
func (r *RetryClient) delay(attempt int) time.Duration {
	d := float64(r.config.InitialDelay) * math.Pow(r.config.BackoffMultiplier, float64(attempt-1))
	if d > float64(r.config.MaxDelay) {
		return r.config.MaxDelay
	}
	return time.Duration(d)
}

// retryablePatterns match transient provider failures worth another attempt.
var retryablePatterns = []string{
	"500",
	"502",
	"503",
	"504",
	"timeout",
	"connection reset",
	"connection refused",
	"temporary failure",
	"rate limit",
	"too many requests",
	"429",
}

// isRetryableError reports whether err is transient. Refusals and empty
// responses are deterministic and never retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimit) || errors.Is(err, &RateLimitError{}) {
		return true
	}
	if errors.Is(err, &RefusalError{}) || errors.Is(err, &EmptyResponseError{}) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
