package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HubProvider calls an inference-hub text-generation endpoint
// (prompt in, generated text out). The consultant-style assessment
// sections use this backend.
type HubProvider struct {
	URL    string
	APIKey string
	Client *http.Client
}

var _ Provider = (*HubProvider)(nil)

func (p *HubProvider) Name() string { return "inference_hub" }

func (p *HubProvider) Generate(ctx context.Context, systemPrompt string, userPrompt string, opts Options) (string, error) {
	if p.URL == "" {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Message: "missing endpoint URL"}
	}

	// The hub endpoint has no message roles; the system prompt is prepended.
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}
	if opts.Schema != nil {
		schemaBytes, err := json.Marshal(opts.Schema)
		if err != nil {
			return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
		}
		prompt += "\n\nRespond with a single JSON object conforming to this JSON schema, with no surrounding text:\n" + string(schemaBytes)
	}

	maxNewTokens := opts.MaxTokens
	if maxNewTokens == 0 {
		maxNewTokens = 2048
	}

	reqBody := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"max_new_tokens":   maxNewTokens,
			"temperature":      opts.Temperature,
			"return_full_text": false,
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &Error{Kind: KindTimeout, Provider: p.Name(), Err: err}
		}
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusServiceUnavailable:
		// The hub returns 503 while a model is loading; both mean "back off".
		return "", &Error{Kind: KindRateLimit, Provider: p.Name(), Message: string(body)}
	case res.StatusCode != http.StatusOK:
		return "", &Error{Kind: KindTransport, Provider: p.Name(),
			Message: fmt.Sprintf("status=%d body=%s", res.StatusCode, truncate(string(body), 500))}
	}

	// Response is either [{"generated_text": "..."}] or {"generated_text": "..."}.
	var list []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return list[0].GeneratedText, nil
	}
	var single struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText, nil
	}

	return "", &Error{Kind: KindTransport, Provider: p.Name(),
		Message: "unrecognized response shape: " + truncate(string(body), 200)}
}
