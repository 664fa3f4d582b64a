package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/time/rate"

	"ma_diligence/pkg/core/utils"
)

const (
	// DefaultTimeout bounds a single LLM call; a timeout is reported as a
	// retriable transport-class failure.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries applies to retriable provider errors only.
	DefaultMaxRetries = 3

	// DefaultProseTemperature is used by unconstrained completions when the
	// caller passes a negative temperature.
	DefaultProseTemperature = 0.2
)

// Gateway wraps a Provider with the cross-cutting call policy: a shared
// rate limiter, per-call timeouts, exponential backoff on retriable errors,
// and schema strictification plus validation for structured calls.
// The gateway never caches; callers that need caching wrap it.
type Gateway struct {
	provider Provider
	limiter  *rate.Limiter
	timeout  time.Duration
	retries  uint64
}

// NewGateway creates a gateway with the default policy. The limiter is
// deliberately conservative; sections are generated with at most four
// in-flight calls, so two requests per second keeps well under provider
// quotas.
func NewGateway(provider Provider) *Gateway {
	return &Gateway{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(2), 4),
		timeout:  DefaultTimeout,
		retries:  DefaultMaxRetries,
	}
}

// SetTimeout overrides the per-call timeout.
func (g *Gateway) SetTimeout(d time.Duration) { g.timeout = d }

// SetLimiter overrides the shared rate limiter.
func (g *Gateway) SetLimiter(l *rate.Limiter) { g.limiter = l }

// SetMaxRetries overrides the retry budget for retriable errors.
func (g *Gateway) SetMaxRetries(n uint64) { g.retries = n }

// Provider returns the wrapped provider.
func (g *Gateway) Provider() Provider { return g.provider }

// ChatComplete performs an unconstrained completion. Pass a negative
// temperature to use the prose default; maxTokens 0 leaves the provider
// default in place.
func (g *Gateway) ChatComplete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	if temperature < 0 {
		temperature = DefaultProseTemperature
	}
	return g.generate(ctx, systemPrompt, userPrompt, Options{
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}

// ChatCompleteStructured performs a completion constrained to a JSON object
// satisfying schema. The schema is strictified once before the call; the
// response is validated against the strictified schema and decoded into out.
// Validation failure yields a *SchemaError carrying the raw model output.
func (g *Gateway) ChatCompleteStructured(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}, out interface{}) error {
	strict := Strictify(schema)

	raw, err := g.generate(ctx, systemPrompt, userPrompt, Options{
		Temperature: 0,
		Schema:      strict,
	})
	if err != nil {
		return err
	}

	cleaned := utils.StripCodeFence(raw)
	if err := validateAgainst(strict, cleaned); err != nil {
		// Repair ladder: targeted JSON repair first for trailing commas and
		// unterminated objects, then the lenient Hjson-backed parse for
		// comments and unquoted keys. Each rung feeds back into validation,
		// it never replaces it.
		recovered := ""
		if repaired, repErr := utils.RepairJSON(cleaned); repErr == nil {
			if validateAgainst(strict, repaired) == nil {
				recovered = repaired
			}
		}
		if recovered == "" {
			var loose interface{}
			if parseErr := utils.SmartParse(raw, &loose); parseErr == nil {
				if b, mErr := json.Marshal(loose); mErr == nil && validateAgainst(strict, string(b)) == nil {
					recovered = string(b)
				}
			}
		}
		if recovered == "" {
			return &SchemaError{Raw: raw, Err: err}
		}
		cleaned = recovered
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &SchemaError{Raw: raw, Err: fmt.Errorf("decode into %T: %w", out, err)}
	}
	return nil
}

func (g *Gateway) generate(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	attempt := func() (string, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", &Error{Kind: KindTimeout, Provider: g.provider.Name(), Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		text, err := g.provider.Generate(callCtx, systemPrompt, userPrompt, opts)
		if err != nil {
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				err = &Error{Kind: KindTimeout, Provider: g.provider.Name(), Err: err}
			}
			if !IsRetriable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return text, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.retries), ctx)
	return backoff.RetryWithData(attempt, policy)
}

// ValidateValue validates a Go value against a JSON schema. Used by the
// extractor to check the assembled report as a whole.
func ValidateValue(schema map[string]interface{}, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal for validation: %w", err)
	}
	return validateAgainst(schema, string(b))
}

func validateAgainst(schema map[string]interface{}, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}
	return nil
}
