package agui

import (
	"encoding/json"

	"github.com/troupe-dev/troupe"
)

// Tool is a tool declaration as AG-UI frontends send it: a name, a
// description, and a JSON Schema for the parameters.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToTool converts the declaration to the troupe wire type.
func (t Tool) ToTool() troupe.Tool {
	return troupe.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// ParseTools types the untyped tool entries of a decoded RunAgentInput.
// A round trip through JSON does the shaping; one malformed entry fails
// the whole batch.
func ParseTools(raw []any) ([]Tool, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var tools []Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// ToTools converts parsed declarations to troupe wire types.
func ToTools(tools []Tool) []troupe.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]troupe.Tool, len(tools))
	for i, t := range tools {
		out[i] = t.ToTool()
	}
	return out
}

// ToolNames lists the declared names.
func ToolNames(tools []Tool) []string {
	if len(tools) == 0 {
		return nil
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}
