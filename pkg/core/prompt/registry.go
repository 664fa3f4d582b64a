package prompt

import (
	"context"
	"fmt"
)

// Store persists prompt overrides. The Postgres implementation lives in
// pkg/core/store; MemoryStore backs tests and store-less CLI runs.
type Store interface {
	// Get returns the stored override for key; present is false when no
	// override exists (the compiled-in default applies).
	Get(ctx context.Context, key string) (value string, present bool, err error)

	// Set atomically replaces the stored override for key, leaving other
	// keys untouched.
	Set(ctx context.Context, key string, value string) error
}

// Registry resolves prompt templates: stored override first, compiled-in
// default otherwise. It is an explicitly passed handle, created at startup.
type Registry struct {
	store Store
}

// NewRegistry creates a registry backed by the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Get returns the template for key. Reads never fail for known keys: a
// store error degrades to the compiled-in default rather than propagating.
func (r *Registry) Get(ctx context.Context, key string) (string, error) {
	if !IsKnown(key) {
		return "", &UnknownKeyError{Key: key}
	}
	value, present, err := r.store.Get(ctx, key)
	if err != nil {
		fmt.Printf("[prompt] store read failed for %s, using default: %v\n", key, err)
		return defaultFor(key), nil
	}
	if !present {
		return defaultFor(key), nil
	}
	// An empty override is still an override; only an absent value
	// (NULL in the Postgres store) falls back to the default.
	return value, nil
}

// Set replaces the stored override for key.
func (r *Registry) Set(ctx context.Context, key string, value string) error {
	if !IsKnown(key) {
		return &UnknownKeyError{Key: key}
	}
	if err := r.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to store prompt %s: %w", key, err)
	}
	return nil
}

// Keys enumerates the recognized prompt keys.
func (r *Registry) Keys() []string {
	keys := make([]string, len(knownKeys))
	copy(keys, knownKeys)
	return keys
}
