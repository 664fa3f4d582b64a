// Package agent maps agent roles to LLM providers. Which provider serves
// which agent is YAML configuration, switchable at runtime through the
// config API.
package agent

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"

	"ma_diligence/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // optional per-agent override
	Description string `yaml:"description"`
}

// LoadConfig reads the agent configuration file. A missing file is not an
// error; the zero Config falls back to the first registered provider.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read agent config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse agent config %s: %w", path, err)
	}
	return cfg, nil
}

// Manager resolves agent types to gateways. Each provider gets one shared
// gateway so the rate limiter covers all agents on that provider. The
// active provider is switched at runtime through the config API, so
// resolution must happen per request, never once at startup.
type Manager struct {
	mu       sync.RWMutex
	config   Config
	fallback string
	gateways map[string]*llm.Gateway
}

// NewManager wraps the given providers. The first name in order of
// registration that matches the config's active provider becomes the
// default; if the config names no usable provider, fallback is used.
func NewManager(cfg Config, providers map[string]llm.Provider, fallback string) *Manager {
	gateways := make(map[string]*llm.Gateway, len(providers))
	for name, p := range providers {
		gateways[name] = llm.NewGateway(p)
	}
	if _, ok := gateways[cfg.ActiveProvider]; !ok {
		cfg.ActiveProvider = fallback
	}
	return &Manager{config: cfg, fallback: fallback, gateways: gateways}
}

// GetGateway returns the gateway serving agentType: per-agent override
// first, then the global active provider, then the fallback.
func (m *Manager) GetGateway(agentType string) *llm.Gateway {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if agentCfg, ok := m.config.Agents[agentType]; ok && agentCfg.Provider != "" {
		if g, ok := m.gateways[agentCfg.Provider]; ok {
			return g
		}
		fmt.Printf("[agent] %s requests unknown provider %q, using active\n", agentType, agentCfg.Provider)
	}
	if g, ok := m.gateways[m.config.ActiveProvider]; ok {
		return g
	}
	return m.gateways[m.fallback]
}

// GetGatewayByName returns the gateway for a specific provider name.
func (m *Manager) GetGatewayByName(name string) (*llm.Gateway, bool) {
	g, ok := m.gateways[name]
	return g, ok
}

// SetGlobalProvider switches the active provider for all agents without
// an explicit override.
func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.gateways[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.mu.Lock()
	m.config.ActiveProvider = name
	m.mu.Unlock()
	fmt.Printf("[agent] global provider set to %s\n", name)
	return nil
}

// GetActiveProvider reports the current global provider name.
func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Providers lists the registered provider names.
func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.gateways))
	for name := range m.gateways {
		names = append(names, name)
	}
	return names
}
