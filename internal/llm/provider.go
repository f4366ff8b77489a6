package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for the generation oracle.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the model and returns a structured response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated (and, if needed, salvaged) JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model or deployment identifier this provider uses.
	ModelID() string
}

// Request describes what to send to the oracle.
type Request struct {
	// System is the system prompt. Sets the model's role and output contract.
	System string

	// Messages is the conversation history. Every k30 call is single-turn,
	// so this normally holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is the raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the oracle.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI-compatible APIs).
	// Kebab-case, e.g. "mcq-steps".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any

	// Strict asks OpenAI-compatible providers for strict schema adherence.
	// Strict mode requires every property to be listed as required, so
	// schemas with optional fields leave it off and rely on local validation.
	Strict bool
}

// Response holds the oracle's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// Add returns the element-wise sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}
