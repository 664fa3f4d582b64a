package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ma_diligence/pkg/core/llm"
)

type namedProvider struct{ name string }

func (p *namedProvider) Generate(ctx context.Context, system, user string, opts llm.Options) (string, error) {
	return "", nil
}

func (p *namedProvider) Name() string { return p.name }

func testProviders() map[string]llm.Provider {
	return map[string]llm.Provider{
		"azure": &namedProvider{name: "azure"},
		"hub":   &namedProvider{name: "hub"},
	}
}

func TestGetGatewayResolution(t *testing.T) {
	cfg := Config{
		ActiveProvider: "azure",
		Agents: map[string]AgentConfig{
			"researcher": {Provider: "hub"},
			"writer":     {},
			"broken":     {Provider: "no_such"},
		},
	}
	m := NewManager(cfg, testProviders(), "azure")

	if got := m.GetGateway("researcher").Provider().Name(); got != "hub" {
		t.Errorf("researcher provider = %s, want per-agent override", got)
	}
	if got := m.GetGateway("writer").Provider().Name(); got != "azure" {
		t.Errorf("writer provider = %s, want active provider", got)
	}
	if got := m.GetGateway("broken").Provider().Name(); got != "azure" {
		t.Errorf("broken override should fall back to active, got %s", got)
	}
	if got := m.GetGateway("unlisted").Provider().Name(); got != "azure" {
		t.Errorf("unlisted agent provider = %s", got)
	}
}

func TestGatewaysSharedPerProvider(t *testing.T) {
	cfg := Config{
		ActiveProvider: "azure",
		Agents: map[string]AgentConfig{
			"a": {Provider: "hub"},
			"b": {Provider: "hub"},
		},
	}
	m := NewManager(cfg, testProviders(), "azure")

	if m.GetGateway("a") != m.GetGateway("b") {
		t.Error("agents on the same provider must share one gateway")
	}
}

func TestSetGlobalProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "azure"}, testProviders(), "azure")

	if err := m.SetGlobalProvider("hub"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if m.GetActiveProvider() != "hub" {
		t.Errorf("active = %s", m.GetActiveProvider())
	}
	if got := m.GetGateway("anything").Provider().Name(); got != "hub" {
		t.Errorf("post-switch provider = %s", got)
	}

	if err := m.SetGlobalProvider("no_such"); err == nil {
		t.Error("unknown provider switch should fail")
	}
}

func TestUnknownActiveProviderFallsBack(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gone"}, testProviders(), "azure")
	if m.GetActiveProvider() != "azure" {
		t.Errorf("active = %s, want fallback", m.GetActiveProvider())
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agents.yaml")
	content := `active_provider: hub
agents:
  researcher:
    provider: azure
    description: gathers market data
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ActiveProvider != "hub" {
		t.Errorf("active_provider = %s", cfg.ActiveProvider)
	}
	if cfg.Agents["researcher"].Provider != "azure" {
		t.Errorf("researcher override = %s", cfg.Agents["researcher"].Provider)
	}

	// A missing file is fine: defaults apply.
	cfg, err = LoadConfig(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.ActiveProvider != "" {
		t.Errorf("missing file should yield zero config, got %+v", cfg)
	}
}
