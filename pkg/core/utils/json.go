// Package utils holds shared helpers for taming LLM output: JSON repair
// and lenient parsing, plus markdown cleanup.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFence removes an outer markdown code fence (```json ... ```)
// and surrounding whitespace. Input without a fence passes through.
func StripCodeFence(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	// Drop the language tag on the opening fence line, if any.
	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(cleaned[:idx])
		if firstLine == "json" || firstLine == "markdown" || firstLine == "html" || firstLine == "" {
			cleaned = cleaned[idx+1:]
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// RepairJSON fixes common JSON defects in model output: missing quotes
// around keys, single quotes, unclosed arrays and objects, trailing commas,
// comments, and stray code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses human-friendly JSON and returns standard JSON.
// Hjson tolerates comments, unquoted keys and optional commas, which makes
// it the most lenient fallback in the parsing ladder.
func ParseHJSON(input string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(input), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal of hjson result failed: %w", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries successively more lenient strategies to decode input
// into out: standard JSON, then repaired JSON, then Hjson.
func SmartParse(input string, out interface{}) error {
	input = StripCodeFence(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return nil
		}
	}

	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("smart parse failed: no strategy produced valid JSON for input of %d bytes", len(input))
}
