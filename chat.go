package troupe

import "context"

// ChatProvider is the conversation surface a backend must offer. The
// orchestration core treats providers as opaque: a call either produces an
// assistant turn (possibly asking for tools) or fails. Failures are not
// retried here; wrap a provider with retry.Chat to opt in.
type ChatProvider interface {
	// Chat sends the conversation and blocks until the full response arrives.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// ChatStream sends the conversation and delivers the response
	// incrementally. The returned channel closes after the final event,
	// which carries either the assembled Response or the stream's error.
	ChatStream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}
