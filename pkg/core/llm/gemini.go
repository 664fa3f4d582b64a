package llm

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider is an alternative chat backend using the official GenAI SDK.
type GeminiProvider struct {
	APIKey string
	Model  string // e.g. "gemini-2.0-flash"
}

var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, systemPrompt string, userPrompt string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Message: "missing API key"}
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	prompt := userPrompt
	if opts.Schema != nil {
		// The SDK's typed Schema does not cover closed-object constraints,
		// so the raw schema goes into the prompt and the gateway validates
		// the response against it.
		config.ResponseMIMEType = "application/json"
		schemaBytes, err := json.Marshal(opts.Schema)
		if err != nil {
			return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
		}
		prompt += "\n\nRespond with a single JSON object conforming to this JSON schema:\n" + string(schemaBytes)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota"):
			return "", &Error{Kind: KindRateLimit, Provider: p.Name(), Err: err}
		case strings.Contains(strings.ToLower(msg), "safety") || strings.Contains(strings.ToLower(msg), "blocked"):
			return "", &Error{Kind: KindPolicy, Provider: p.Name(), Err: err}
		default:
			return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
		}
	}

	text := result.Text()
	if text == "" {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Message: "empty response"}
	}
	return text, nil
}
