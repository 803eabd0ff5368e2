package nlp_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/soundprediction/triago/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyClient fails its first fail calls with err, then succeeds.
type flakyClient struct {
	mu    sync.Mutex
	calls int
	fail  int
	err   error
}

func (f *flakyClient) Chat(_ context.Context, _ []types.Message) (*types.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fail {
		return nil, f.err
	}
	return &types.Response{Content: "ok"}, nil
}

func (f *flakyClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, _ any) (*types.Response, error) {
	return f.Chat(ctx, messages)
}

func (f *flakyClient) Close() error { return nil }

func fastRetryConfig() *nlp.RetryConfig {
	return &nlp.RetryConfig{
		MaxRetries:        2,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryPassesThroughSuccess(t *testing.T) {
	stub := &flakyClient{}
	client := nlp.NewRetryClient(stub, fastRetryConfig())

	resp, err := client.Chat(context.Background(), []types.Message{nlp.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 1, stub.calls)
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	stub := &flakyClient{fail: 2, err: nlp.NewRateLimitError()}
	client := nlp.NewRetryClient(stub, fastRetryConfig())

	resp, err := client.Chat(context.Background(), []types.Message{nlp.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, stub.calls, "two failures then one success")
}

func TestRetryStructuredOutputRetries(t *testing.T) {
	stub := &flakyClient{fail: 1, err: errors.New("503 service unavailable")}
	client := nlp.NewRetryClient(stub, fastRetryConfig())

	resp, err := client.ChatWithStructuredOutput(context.Background(), []types.Message{nlp.NewUserMessage("hi")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, stub.calls)
}

func TestRetryFailsFastOnNonRetryableError(t *testing.T) {
	stub := &flakyClient{fail: 10, err: nlp.NewRefusalError("cannot answer")}
	client := nlp.NewRetryClient(stub, fastRetryConfig())

	_, err := client.Chat(context.Background(), []types.Message{nlp.NewUserMessage("hi")})
	require.Error(t, err)
	assert.ErrorIs(t, err, &nlp.RefusalError{})
	assert.Equal(t, 1, stub.calls, "refusals are never retried")
}

func TestRetryExhaustsAndWrapsLastError(t *testing.T) {
	stub := &flakyClient{fail: 10, err: errors.New("connection reset by peer")}
	client := nlp.NewRetryClient(stub, fastRetryConfig())

	_, err := client.Chat(context.Background(), []types.Message{nlp.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 retries")
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Equal(t, 3, stub.calls, "initial attempt plus two retries")
}

func TestRetryStopsOnContextCancellation(t *testing.T) {
	stub := &flakyClient{fail: 10, err: nlp.NewRateLimitError()}
	cfg := fastRetryConfig()
	cfg.InitialDelay = 250 * time.Millisecond

	client := nlp.NewRetryClient(stub, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Chat(ctx, []types.Message{nlp.NewUserMessage("hi")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, stub.calls, "backoff wait must honor the context")
}
