package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// failingStore simulates a broken backing database.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return errors.New("connection refused")
}

func TestGetFallsBackToDefault(t *testing.T) {
	r := NewRegistry(NewMemoryStore())

	for _, key := range r.Keys() {
		value, err := r.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", key, err)
		}
		if strings.TrimSpace(value) == "" {
			t.Errorf("Get(%s) returned empty default", key)
		}
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	r := NewRegistry(NewMemoryStore())
	ctx := context.Background()

	custom := "Custom template for {{.CompanyName}}"
	if err := r.Set(ctx, KeyBalanceSheet, custom); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := r.Get(ctx, KeyBalanceSheet)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != custom {
		t.Errorf("Get = %q, want the stored override", got)
	}
}

func TestEmptyOverrideRoundTrips(t *testing.T) {
	r := NewRegistry(NewMemoryStore())
	ctx := context.Background()

	if err := r.Set(ctx, KeyCashFlow, ""); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := r.Get(ctx, KeyCashFlow)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "" {
		t.Errorf("Get = %q, an empty override must not fall back to the default", got)
	}
}

func TestSetDoesNotTouchOtherKeys(t *testing.T) {
	r := NewRegistry(NewMemoryStore())
	ctx := context.Background()

	before, _ := r.Get(ctx, KeyCashFlow)
	if err := r.Set(ctx, KeyBalanceSheet, "override"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	after, _ := r.Get(ctx, KeyCashFlow)

	if before != after {
		t.Error("updating one key changed another key's value")
	}
}

func TestUnknownKey(t *testing.T) {
	r := NewRegistry(NewMemoryStore())
	ctx := context.Background()

	_, err := r.Get(ctx, "no_such_section")
	var unknown *UnknownKeyError
	if !errors.As(err, &unknown) {
		t.Fatalf("Get unknown key err = %v, want UnknownKeyError", err)
	}

	if err := r.Set(ctx, "no_such_section", "x"); err == nil {
		t.Error("Set unknown key should fail")
	}
}

func TestGetSurvivesStoreFailure(t *testing.T) {
	r := NewRegistry(failingStore{})

	value, err := r.Get(context.Background(), KeyExecutiveSummary)
	if err != nil {
		t.Fatalf("reads must not fail for known keys: %v", err)
	}
	if strings.TrimSpace(value) == "" {
		t.Error("store failure should degrade to the compiled-in default")
	}
}

func TestOverridesPersistAcrossRegistries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := NewRegistry(store)
	if err := first.Set(ctx, KeyFLA, "persisted override"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	second := NewRegistry(store)
	got, err := second.Get(ctx, KeyFLA)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "persisted override" {
		t.Errorf("Get = %q, overrides should live in the store, not the registry", got)
	}
}

func TestRenderMissingVariableFails(t *testing.T) {
	_, err := Render("t", "Hello {{.Name}}", map[string]interface{}{})
	if err == nil {
		t.Error("rendering with a missing variable should fail")
	}

	out, err := Render("t", "Hello {{.Name}}", map[string]interface{}{"Name": "Acme"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if out != "Hello Acme" {
		t.Errorf("Render = %q", out)
	}
}

func TestDefaultTemplatesRender(t *testing.T) {
	r := NewRegistry(NewMemoryStore())
	ctx := context.Background()

	vars := map[string]interface{}{
		"CompanyName":  "Acme Corp",
		"Industry":     "manufacturing",
		"Data":         "{}",
		"Method":       "DCF",
		"Website":      "https://acme.example",
		"ScrapedData":  "{}",
		"PnL":          "pnl text",
		"BalanceSheet": "bs text",
		"CashFlow":     "cf text",
		"Phase":        "Due Diligence",
		"Task":         "Assessment",
		"CompanyType":  "manufacturer",
		"IndustryType": "industrials",
	}

	for _, key := range r.Keys() {
		tmpl, err := r.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%s): %v", key, err)
		}
		if _, err := Render(key, tmpl, vars); err != nil {
			t.Errorf("default template %s does not render: %v", key, err)
		}
	}
}
