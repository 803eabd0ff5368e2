package types

// ContextKey is the type for values triago stores in a context.Context.
// A named type avoids collisions with other packages' keys.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request id assigned by the server.
	ContextKeyRequestID ContextKey = "triago.request_id"
	// ContextKeyUserID carries the caller's user id, when provided.
	ContextKeyUserID ContextKey = "triago.user_id"
	// ContextKeySessionID carries the caller's session id, when provided.
	ContextKeySessionID ContextKey = "triago.session_id"
	// ContextKeyRequestSource marks which adapter produced the request.
	ContextKeyRequestSource ContextKey = "triago.request_source"
)
