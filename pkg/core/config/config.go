// Package config loads process-wide settings from the environment. All
// credentials are read once at startup and are immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every externally supplied setting.
type Config struct {
	// Azure OpenAI chat backend (primary).
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIKey     string
	AzureAPIVersion string

	// Inference-hub text-generation backend (consultant sections).
	HubURL    string
	HubAPIKey string

	// Gemini backend (optional alternative).
	GeminiAPIKey string

	// External tools.
	ScraperURL    string
	ScraperAPIKey string
	SearchURL     string
	SearchAPIKey  string
	FinanceURL    string

	// Prompt store.
	DatabaseURL string

	// Agent-to-provider mapping file.
	AgentConfigPath string
}

// Load reads .env (if present) and the environment. It fails fast with one
// error naming every missing required setting, so a misconfigured deploy is
// diagnosed in a single run.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		fmt.Println("[config] loaded .env")
	}

	cfg := &Config{
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureAPIVersion: getenvDefault("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),

		HubURL:    os.Getenv("HUB_API_URL"),
		HubAPIKey: os.Getenv("HUB_API_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		ScraperURL:    os.Getenv("SCRAPER_API_URL"),
		ScraperAPIKey: os.Getenv("SCRAPER_API_KEY"),
		SearchURL:     os.Getenv("SEARCH_API_URL"),
		SearchAPIKey:  os.Getenv("SEARCH_API_KEY"),
		FinanceURL:    os.Getenv("FINANCE_API_URL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AgentConfigPath: getenvDefault("AGENT_CONFIG_PATH", "agents.yaml"),
	}

	var missing []string
	for _, req := range []struct{ name, value string }{
		{"AZURE_OPENAI_ENDPOINT", cfg.AzureEndpoint},
		{"AZURE_OPENAI_DEPLOYMENT", cfg.AzureDeployment},
		{"AZURE_OPENAI_API_KEY", cfg.AzureAPIKey},
	} {
		if req.value == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
