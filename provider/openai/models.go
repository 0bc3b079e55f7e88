package openai

// ChatModel identifies an OpenAI chat/completion model. The constants below
// cover the models this adapter is tested against; any other identifier the
// API accepts works too. Pricing and metadata live in the models package
// catalog, keyed by the same identifiers.
type ChatModel string

const (
	// GPT-5.2 series
	GPT52    ChatModel = "gpt-5.2"
	GPT52Pro ChatModel = "gpt-5.2-pro"

	// GPT-5.1 series
	GPT51      ChatModel = "gpt-5.1"
	GPT51Mini  ChatModel = "gpt-5.1-mini"
	GPT51Codex ChatModel = "gpt-5.1-codex"

	// GPT-5 series
	GPT5     ChatModel = "gpt-5"
	GPT5Mini ChatModel = "gpt-5-mini"
	GPT5Nano ChatModel = "gpt-5-nano"
	GPT5Pro  ChatModel = "gpt-5-pro"

	// o-series reasoning models
	O3     ChatModel = "o3"
	O3Mini ChatModel = "o3-mini"
	O4Mini ChatModel = "o4-mini"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = GPT52

// String returns the identifier the API expects.
func (m ChatModel) String() string { return string(m) }

// EmbeddingModel identifies an OpenAI embedding model.
type EmbeddingModel string

const (
	TextEmbedding3Large EmbeddingModel = "text-embedding-3-large" // 3072 dimensions
	TextEmbedding3Small EmbeddingModel = "text-embedding-3-small" // 1536 dimensions
)

// DefaultEmbeddingModel is used when no embedding model is configured.
const DefaultEmbeddingModel = TextEmbedding3Small

// String returns the identifier the API expects.
func (m EmbeddingModel) String() string { return string(m) }
