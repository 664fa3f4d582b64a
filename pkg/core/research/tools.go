// Package research runs the two-agent market-analysis team: a web
// researcher with search and finance tools, and a report writer that
// synthesizes the researcher's notes into an analyst-style report.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// SearchTool answers free-text web queries with a text summary of results.
type SearchTool interface {
	Search(ctx context.Context, query string) (string, error)
}

// FinanceTool resolves market data for a ticker symbol.
type FinanceTool interface {
	StockInfo(ctx context.Context, ticker string) (string, error)
}

// HTTPSearchTool calls a search API that accepts ?q= and returns JSON.
type HTTPSearchTool struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

var _ SearchTool = (*HTTPSearchTool)(nil)

func (t *HTTPSearchTool) Search(ctx context.Context, query string) (string, error) {
	if t.BaseURL == "" {
		return "", fmt.Errorf("search tool not configured")
	}

	endpoint := fmt.Sprintf("%s?q=%s", t.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if t.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.APIKey)
	}

	res, err := httpClient(t.HTTPClient).Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API status %d: %s", res.StatusCode, body)
	}

	return flattenResults(body), nil
}

// HTTPFinanceTool calls a quote API that accepts ?symbol= and returns JSON.
type HTTPFinanceTool struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ FinanceTool = (*HTTPFinanceTool)(nil)

func (t *HTTPFinanceTool) StockInfo(ctx context.Context, ticker string) (string, error) {
	if t.BaseURL == "" {
		return "", fmt.Errorf("finance tool not configured")
	}

	endpoint := fmt.Sprintf("%s?symbol=%s", t.BaseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	res, err := httpClient(t.HTTPClient).Do(req)
	if err != nil {
		return "", fmt.Errorf("finance request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("finance API status %d: %s", res.StatusCode, body)
	}

	return flattenResults(body), nil
}

// flattenResults renders an arbitrary JSON response as compact text so it
// can be dropped into a prompt. Non-JSON bodies pass through unchanged.
func flattenResults(body []byte) string {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	compact, err := json.Marshal(v)
	if err != nil {
		return string(body)
	}
	return string(compact)
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
