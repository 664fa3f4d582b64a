package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures. Transport, rate-limit and timeout
// errors are retriable; policy refusals are not.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindRateLimit ErrorKind = "rate_limit"
	KindTimeout   ErrorKind = "timeout"
	KindPolicy    ErrorKind = "policy"
)

// Error is the provider-level error surfaced by every LLM call.
type Error struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm %s error (%s): %s", e.Kind, e.Provider, e.Message)
	}
	return fmt.Sprintf("llm %s error (%s): %v", e.Kind, e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retriable reports whether a retry with backoff can reasonably succeed.
func (e *Error) Retriable() bool {
	switch e.Kind {
	case KindTransport, KindRateLimit, KindTimeout:
		return true
	}
	return false
}

// SchemaError is returned when a structured call produced text that failed
// JSON-schema validation. Raw carries the model output for debugging.
type SchemaError struct {
	Raw string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("llm schema validation failed: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsRetriable reports whether err wraps a retriable provider error.
func IsRetriable(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Retriable()
	}
	return false
}
