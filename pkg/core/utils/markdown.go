package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmtext "github.com/yuin/goldmark/text"
)

// CleanMarkdown strips conversational filler and outer markdown code blocks
// so the fragment is ready for rendering.
func CleanMarkdown(input string) string {
	cleaned := StripCodeFence(input)

	// Some models prefix fragments with a short acknowledgement line.
	for _, prefix := range []string{"Sure, here is", "Here is", "Certainly!"} {
		if strings.HasPrefix(cleaned, prefix) {
			if idx := strings.Index(cleaned, "\n"); idx >= 0 {
				cleaned = strings.TrimSpace(cleaned[idx+1:])
			}
			break
		}
	}
	return cleaned
}

// ValidateMarkdown reports whether the string parses as Markdown.
// Goldmark is very permissive, so this is a basic sanity check.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	doc := parser.Parse(gmtext.NewReader([]byte(input)))
	return doc != nil
}

// RenderHTML converts a Markdown fragment to HTML. Fragments that already
// look like HTML pass through unchanged.
func RenderHTML(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "<") {
		return trimmed, nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(trimmed), &buf); err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}
	return buf.String(), nil
}
