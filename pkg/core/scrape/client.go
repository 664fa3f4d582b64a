// Package scrape fetches structured data about a company from its website,
// either through the external scraping API or a local fallback fetch.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Error wraps any scraper failure so generators can distinguish scrape
// problems from LLM problems.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scrape of %s failed: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client calls the external scraping API. When no API is configured the
// client degrades to a direct fetch of the page with goquery cleanup,
// which is enough for the LLM to draft a profile.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{BaseURL: baseURL, APIKey: apiKey}
}

// Scrape extracts structured fields from websiteURL guided by userPrompt.
// The returned map's exact shape is not enforced; it is forwarded to the
// LLM as JSON.
func (c *Client) Scrape(ctx context.Context, websiteURL string, userPrompt string) (map[string]interface{}, error) {
	if c.BaseURL == "" {
		return c.localScrape(ctx, websiteURL)
	}

	reqBody, err := json.Marshal(map[string]string{
		"url":    websiteURL,
		"prompt": userPrompt,
	})
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &Error{URL: websiteURL, Err: fmt.Errorf("status %d: %s", res.StatusCode, body)}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}

	// Some scraper deployments wrap the fields in a {result: ...} envelope.
	if result, ok := payload["result"].(map[string]interface{}); ok {
		return result, nil
	}
	return payload, nil
}

// localScrape fetches the page directly and reduces it to title, headings
// and visible text.
func (c *Client) localScrape(ctx context.Context, websiteURL string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &Error{URL: websiteURL, Err: fmt.Errorf("status %d", res.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, &Error{URL: websiteURL, Err: err}
	}

	doc.Find("script, style, noscript").Remove()

	headings := make([]string, 0, 16)
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			headings = append(headings, text)
		}
	})

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > 20000 {
		text = text[:20000]
	}

	return map[string]interface{}{
		"url":      websiteURL,
		"title":    strings.TrimSpace(doc.Find("title").Text()),
		"headings": headings,
		"text":     text,
	}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
