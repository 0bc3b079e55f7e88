package pack

import "encoding/json"

// Router kinds a document can describe. Function routers have no
// serialized form.
const (
	// RouterRoundRobin cycles through the descriptor's agent names.
	RouterRoundRobin = "round_robin"
	// RouterAgent is a model-backed router; decisions cost one chat call.
	RouterAgent = "agent"
	// RouterSemantic is an embedding-based router; decisions cost one
	// embedding call.
	RouterSemantic = "semantic"
)

// Document is the serialized form of a pool configuration: every tool and
// agent definition plus the pool wiring, minus the parts that cannot
// serialize (tool handlers, providers). Build reconstructs a live pool
// from a document given those bindings; FromPool captures one back.
type Document struct {
	Tools  []ToolDef  `json:"tools,omitempty"`
	Agents []AgentDef `json:"agents,omitempty"`
	Pool   PoolDef    `json:"pool"`
}

// ToolDef is a tool declaration plus its execution policy. Nil policy
// fields mean the tool package defaults.
type ToolDef struct {
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Parameters        json.RawMessage `json:"parameters,omitempty"`
	TimeoutSeconds    *float64        `json:"timeout_seconds,omitempty"`
	MaxRetries        *int            `json:"max_retries,omitempty"`
	RetryDelaySeconds *float64        `json:"retry_delay_seconds,omitempty"`
	RetryBackoff      *bool           `json:"retry_backoff,omitempty"`
	OnError           string          `json:"on_error,omitempty"`
}

// AgentDef is an agent's serializable configuration. Tools lists names
// from the document's tool definitions.
type AgentDef struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Persona     string   `json:"persona,omitempty"`
	Model       string   `json:"model,omitempty"`
	Tools       []string `json:"tools,omitempty"`
}

// PoolDef wires agents and a router into a pool. An empty agent list means
// every agent the document defines, in definition order. A nil MaxIter
// means the pool default.
type PoolDef struct {
	Agents  []string   `json:"agents,omitempty"`
	Router  *RouterDef `json:"router,omitempty"`
	MaxIter *int       `json:"max_iter,omitempty"`
}

// RouterDef describes a routing strategy. Agents restricts the candidate
// set; empty means the model-backed and semantic kinds adopt the pool's
// registry, and the round-robin kind cycles through the pool's agents.
// Model is the decision model for the agent kind and the embedding model
// for the semantic kind.
type RouterDef struct {
	Type     string   `json:"type"`
	Agents   []string `json:"agents,omitempty"`
	Model    string   `json:"model,omitempty"`
	MinScore float64  `json:"min_score,omitempty"`
}

// Marshal renders the document as indented JSON, the on-disk form.
// Unmarshal followed by Marshal reproduces a structurally equivalent
// document.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses a document. Name references are not resolved here;
// Build validates them against the document when it constructs the pool.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
