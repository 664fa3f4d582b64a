// Package llm provides the gateway to the configured chat and
// text-generation backends, including JSON-schema-constrained structured
// output with strictification and validation.
package llm

import "context"

// Options carries per-call generation parameters.
type Options struct {
	Temperature float64
	MaxTokens   int

	// Schema, when non-nil, constrains the response to a JSON object
	// satisfying this JSON schema. Providers with a native json_schema
	// response format pass it through; others embed the schema in the
	// instruction and rely on gateway-side validation.
	Schema     map[string]interface{}
	SchemaName string
}

// Provider is the interface for all LLM backends.
type Provider interface {
	// Generate performs a single completion. The returned string is the raw
	// model output; callers are responsible for any JSON handling.
	Generate(ctx context.Context, systemPrompt string, userPrompt string, opts Options) (string, error)

	// Name identifies the provider in errors and logs.
	Name() string
}
