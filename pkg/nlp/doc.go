// Package nlp provides the language-model collaborator used for free-text
// answers and incident annotations.
//
// The engine never depends on this package: search and context assembly stay
// deterministic whether or not a model is configured. Callers hold the Client
// interface; NewClient builds an OpenAI-compatible implementation from
// configuration. NewRetryClient adds exponential backoff for transient
// provider failures, and NewCircuitBreakerClient wraps any Client with
// circuit breaking so a persistently failing provider degrades to fast
// errors instead of timeouts.
//
// # Error Handling
//
// The package defines specific error types for common failure modes:
//   - RateLimitError: API rate limit exceeded
//   - RefusalError: Model refused to generate content
//   - EmptyResponseError: Model returned empty response
//
// These errors support errors.Is() for type checking.
package nlp
