// Package narrative generates the learner-facing insight text through an
// LLM provider. The provider is an injected capability: the rest of the
// pipeline only sees the insight.Narrator interface, and every failure mode
// here degrades to the deterministic fallback generator, never to an error
// for the caller.
package narrative

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over a single LLM backend. Insight generation
// is single-turn: one system prompt, one user prompt, one structured reply.
type Provider interface {
	// Generate sends the prompt and returns the structured response. When
	// the request carries a Schema the provider uses its native structured
	// output mechanism and the response Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the single user message.
	Prompt string

	// Schema, when set, is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness; 0 (the default) is deterministic.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "learning-insight".
	Name string

	// Description guides the model on what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when a Schema was
	// requested, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
