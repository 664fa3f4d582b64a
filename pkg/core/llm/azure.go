package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AzureChatProvider calls an Azure-style chat-completions deployment.
// This is the default backend for report sections and structured extraction.
type AzureChatProvider struct {
	Endpoint   string // e.g. https://myresource.openai.azure.com
	Deployment string
	APIKey     string
	APIVersion string
	Client     *http.Client
}

var _ Provider = (*AzureChatProvider)(nil)

func (p *AzureChatProvider) Name() string { return "azure_chat" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *chatJSONSchema `json:"json_schema,omitempty"`
}

type chatJSONSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type chatRequest struct {
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AzureChatProvider) Generate(ctx context.Context, systemPrompt string, userPrompt string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Message: "missing API key"}
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(p.Endpoint, "/"), p.Deployment, p.APIVersion)

	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.Schema != nil {
		name := opts.SchemaName
		if name == "" {
			name = "response"
		}
		reqBody.ResponseFormat = &chatResponseFormat{
			Type:       "json_schema",
			JSONSchema: &chatJSONSchema{Name: name, Strict: true, Schema: opts.Schema},
		}
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.APIKey)

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
	case res.StatusCode == http.StatusTooManyRequests:
		return "", &Error{Kind: KindRateLimit, Provider: p.Name(), Message: string(body)}
	case res.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "content_filter"):
		return "", &Error{Kind: KindPolicy, Provider: p.Name(), Message: string(body)}
	case res.StatusCode != http.StatusOK:
		return "", &Error{Kind: KindTransport, Provider: p.Name(),
			Message: fmt.Sprintf("status=%d body=%s", res.StatusCode, truncate(string(body), 500))}
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Err: err}
	}
	if response.Error != nil {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Message: response.Error.Message}
	}
	if len(response.Choices) == 0 {
		return "", &Error{Kind: KindTransport, Provider: p.Name(), Message: "no choices in response"}
	}
	if response.Choices[0].FinishReason == "content_filter" {
		return "", &Error{Kind: KindPolicy, Provider: p.Name(), Message: "completion stopped by content filter"}
	}

	return response.Choices[0].Message.Content, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
