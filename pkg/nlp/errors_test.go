package nlp_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitError(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		err := nlp.NewRateLimitError()
		assert.Equal(t, "rate limit exceeded. Please try again later", err.Error())
	})

	t.Run("custom message", func(t *testing.T) {
		customMessage := "Custom rate limit message"
		err := nlp.NewRateLimitError(customMessage)
		assert.Equal(t, customMessage, err.Error())
	})

	t.Run("errors.Is through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("call failed: %w", nlp.NewRateLimitError())
		assert.True(t, errors.Is(wrapped, &nlp.RateLimitError{}))
	})
}

func TestRefusalError(t *testing.T) {
	message := "the model refused to respond to this prompt"
	err := nlp.NewRefusalError(message)
	assert.Equal(t, message, err.Error())

	wrapped := fmt.Errorf("annotate: %w", err)
	assert.True(t, errors.Is(wrapped, &nlp.RefusalError{}))
	assert.False(t, errors.Is(wrapped, &nlp.RateLimitError{}))
}

func TestEmptyResponseError(t *testing.T) {
	message := "the model returned an empty response"
	err := nlp.NewEmptyResponseError(message)
	assert.Equal(t, message, err.Error())

	wrapped := fmt.Errorf("answer: %w", err)
	assert.True(t, errors.Is(wrapped, &nlp.EmptyResponseError{}))
}

func TestCommonErrors(t *testing.T) {
	assert.Contains(t, nlp.ErrRateLimit.Error(), "rate limit")
	assert.Contains(t, nlp.ErrRefusal.Error(), "refused")
	assert.Contains(t, nlp.ErrEmptyResponse.Error(), "empty")
	assert.Contains(t, nlp.ErrInvalidModel.Error(), "invalid model")
}
