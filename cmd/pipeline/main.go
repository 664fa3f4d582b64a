// Command pipeline runs a full report from the command line, without the
// HTTP server or the database. Useful for smoke-testing prompts and
// providers against a real company.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ma_diligence/pkg/core/agent"
	"ma_diligence/pkg/core/config"
	"ma_diligence/pkg/core/datasource"
	"ma_diligence/pkg/core/extract"
	"ma_diligence/pkg/core/generator"
	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/orchestrator"
	"ma_diligence/pkg/core/pdf"
	"ma_diligence/pkg/core/prompt"
	"ma_diligence/pkg/core/research"
	"ma_diligence/pkg/core/scrape"
)

func main() {
	company := flag.String("company", "", "company name (required)")
	industry := flag.String("industry", "", "industry, e.g. 'manufacturing'")
	website := flag.String("website", "", "company website URL")
	pdfPath := flag.String("pdf", "", "optional financial statement PDF to extract")
	section := flag.String("section", "", "generate a single section instead of the full report")
	flag.Parse()

	if *company == "" {
		fmt.Println("usage: pipeline -company NAME [-industry X] [-website URL] [-pdf FILE] [-section KEY]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	registry := prompt.NewRegistry(prompt.NewMemoryStore())

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

	chat := agentMgr.GetGateway("sections")
	text := chat
	if hub, ok := agentMgr.GetGatewayByName("hub"); ok {
		text = hub
	}

	deps := orchestrator.Deps{
		Chat:     chat,
		Text:     text,
		Registry: registry,
		Scraper:  scrape.NewClient(cfg.ScraperURL, cfg.ScraperAPIKey),
		Team: research.NewTeam(
			agentMgr.GetGateway("researcher"),
			agentMgr.GetGateway("writer"),
			&research.HTTPSearchTool{BaseURL: cfg.SearchURL, APIKey: cfg.SearchAPIKey},
			&research.HTTPFinanceTool{BaseURL: cfg.FinanceURL},
		),
	}

	if *pdfPath != "" {
		pdfBytes, err := os.ReadFile(*pdfPath)
		if err != nil {
			fmt.Printf("[FATAL] failed to read %s: %v\n", *pdfPath, err)
			os.Exit(1)
		}
		extractor := extract.NewExtractor(agentMgr.GetGateway("extractor"), pdf.NewCpuExtractor())
		report, err := extractor.ExtractReport(ctx, pdfBytes)
		if report == nil {
			fmt.Printf("[FATAL] extraction failed: %v\n", err)
			os.Exit(1)
		}
		if err != nil {
			fmt.Printf("[WARNING] partial extraction: %v\n", err)
		}
		src := &datasource.FromReport{Report: report}
		deps.Financials = src
		deps.Summary = src
		fmt.Printf("Extracted report for %s\n", report.CompanyInfo.Name)
	}

	orch := orchestrator.Build(deps)
	req := generator.Request{
		CompanyName: *company,
		Industry:    *industry,
		WebsiteURL:  *website,
		Phase:       "Due Diligence",
		Task:        "Assessment",
	}

	if *section != "" {
		var frag generator.Fragment
		if *section == generator.SectionBeyondFR {
			frag = orch.GenerateBeyondFR(ctx, req)
		} else {
			frag = orch.GenerateSection(ctx, *section, req)
		}
		fmt.Printf("\n===== %s =====\n%s\n", frag.Section, frag.Body)
		return
	}

	for _, frag := range orch.GenerateFull(ctx, req) {
		fmt.Printf("\n===== %s =====\n%s\n", frag.Section, frag.Body)
	}
}
