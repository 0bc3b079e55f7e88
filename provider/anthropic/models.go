package anthropic

// ChatModel identifies an Anthropic chat model. The constants below cover
// the models this adapter is tested against; any other identifier the API
// accepts works too. Pricing and metadata live in the models package catalog,
// keyed by the same identifiers.
type ChatModel string

const (
	// Claude 4.5 family, auto-updating aliases
	ClaudeOpus45   ChatModel = "claude-opus-4-5"
	ClaudeSonnet45 ChatModel = "claude-sonnet-4-5"
	ClaudeHaiku45  ChatModel = "claude-haiku-4-5"

	// Pinned versions for production stability
	ClaudeOpus45_20251101   ChatModel = "claude-opus-4-5-20251101"
	ClaudeSonnet45_20250929 ChatModel = "claude-sonnet-4-5-20250929"
	ClaudeHaiku45_20251001  ChatModel = "claude-haiku-4-5-20251001"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = ClaudeSonnet45

// String returns the identifier the API expects.
func (m ChatModel) String() string { return string(m) }
