// Package dto holds the HTTP layer's request models. Responses reuse the
// pkg/types result structs directly; their json tags are the wire shape.
package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
