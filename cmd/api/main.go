package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	apiconfig "ma_diligence/pkg/api/config"
	"ma_diligence/pkg/api/prompts"
	"ma_diligence/pkg/api/reports"
	"ma_diligence/pkg/core/agent"
	"ma_diligence/pkg/core/config"
	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/orchestrator"
	"ma_diligence/pkg/core/pdf"
	"ma_diligence/pkg/core/prompt"
	"ma_diligence/pkg/core/research"
	"ma_diligence/pkg/core/scrape"
	"ma_diligence/pkg/core/session"
	"ma_diligence/pkg/core/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Prompt store: Postgres when configured, in-memory otherwise.
	var promptStore prompt.Store
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("[FATAL] database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo := store.NewPromptRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			fmt.Printf("[FATAL] prompt schema setup failed: %v\n", err)
			os.Exit(1)
		}
		promptStore = repo
		fmt.Println("[store] prompt registry backed by Postgres")
	} else {
		promptStore = prompt.NewMemoryStore()
		fmt.Println("[WARNING] DATABASE_URL not set, prompt edits will not persist")
	}
	registry := prompt.NewRegistry(promptStore)

	// Providers. Azure is mandatory; hub and Gemini join when configured.
	providers := map[string]llm.Provider{
		"azure": &llm.AzureChatProvider{
			Endpoint:   cfg.AzureEndpoint,
			Deployment: cfg.AzureDeployment,
			APIKey:     cfg.AzureAPIKey,
			APIVersion: cfg.AzureAPIVersion,
		},
	}
	if cfg.HubURL != "" {
		providers["hub"] = &llm.HubProvider{URL: cfg.HubURL, APIKey: cfg.HubAPIKey}
	}
	if cfg.GeminiAPIKey != "" {
		providers["gemini"] = &llm.GeminiProvider{APIKey: cfg.GeminiAPIKey}
	}

	agentCfg, err := agent.LoadConfig(cfg.AgentConfigPath)
	if err != nil {
		fmt.Printf("[WARNING] %v, using defaults\n", err)
	}
	agentMgr := agent.NewManager(agentCfg, providers, "azure")

	sessions := session.NewManager()

	// Gateways are not captured here: the reports handler resolves them
	// through the agent manager on every request so a provider switch
	// applies to the next generation.
	reportsHandler := &reports.Handler{
		Deps: orchestrator.Deps{
			Registry: registry,
			Scraper:  scrape.NewClient(cfg.ScraperURL, cfg.ScraperAPIKey),
		},
		Agents:   agentMgr,
		Sessions: sessions,
		PDF:      pdf.NewCpuExtractor(),
		Search:   &research.HTTPSearchTool{BaseURL: cfg.SearchURL, APIKey: cfg.SearchAPIKey},
		Finance:  &research.HTTPFinanceTool{BaseURL: cfg.FinanceURL},
	}
	http.HandleFunc("/api/report/full", reportsHandler.HandleFull)
	http.HandleFunc("/api/report/section", reportsHandler.HandleSection)
	http.HandleFunc("/api/report/upload", reportsHandler.HandleUpload)

	promptsHandler := prompts.NewHandler(registry, sessions)
	http.HandleFunc("/api/prompts", promptsHandler.HandlePrompts)
	http.HandleFunc("/api/prompts/draft", promptsHandler.HandleDraft)

	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - POST /api/report/full")
	fmt.Println("  - POST /api/report/section")
	fmt.Println("  - POST /api/report/upload")
	fmt.Println("  - GET/POST /api/prompts")
	fmt.Println("  - GET/POST /api/prompts/draft")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
