package google

// ChatModel identifies a Google Gemini chat model. The constants below cover
// the models this adapter is tested against; any other identifier the API
// accepts works too. Pricing and metadata live in the models package catalog,
// keyed by the same identifiers.
type ChatModel string

const (
	// Gemini 3.0
	Gemini3Pro       ChatModel = "gemini-3.0-pro"
	Gemini3DeepThink ChatModel = "gemini-3.0-deep-think"

	// Gemini 2.5 series
	Gemini25Pro       ChatModel = "gemini-2.5-pro"
	Gemini25Flash     ChatModel = "gemini-2.5-flash"
	Gemini25FlashLite ChatModel = "gemini-2.5-flash-lite"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = Gemini25Flash

// String returns the identifier the API expects.
func (m ChatModel) String() string { return string(m) }

// EmbeddingModel identifies a Google text embedding model.
type EmbeddingModel string

// GeminiEmbedding001 produces 3072-dimension vectors.
const GeminiEmbedding001 EmbeddingModel = "gemini-embedding-001"

// DefaultEmbeddingModel is used when no embedding model is configured.
const DefaultEmbeddingModel = GeminiEmbedding001

// String returns the identifier the API expects.
func (m EmbeddingModel) String() string { return string(m) }
