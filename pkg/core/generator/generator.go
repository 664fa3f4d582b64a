// Package generator holds one generator per report section. Each reads its
// template from the prompt registry, composes a message with its data
// source, calls the LLM gateway and returns an HTML/Markdown fragment.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Report section keys, in the order the orchestrator emits them.
const (
	SectionExecutiveSummary = "executive_summary"
	SectionAboutCompany     = "about_company"
	SectionMarketAnalysis   = "market_analysis"
	SectionPnL              = "pnl"
	SectionBalanceSheet     = "balance_sheet"
	SectionCashFlow         = "cash_flow"
	SectionValuation        = "valuation"
	SectionDCF              = "dcf"
	SectionCCA              = "cca"
	SectionHumanCapital     = "hc"
	SectionOperational      = "operational"
	SectionLegal            = "legal"
	SectionRisk             = "risk"
	SectionBeyondFR         = "beyond_fr"
)

// Fragment is one generated report section. Fragments live in session
// memory only; nothing persists them.
type Fragment struct {
	Section     string    `json:"section"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerationError wraps a section failure with the section it came from.
type GenerationError struct {
	Section string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("section %s: %v", e.Section, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Request carries the per-run user inputs shared by all generators.
type Request struct {
	CompanyName  string
	Industry     string
	WebsiteURL   string
	Phase        string
	Task         string
	CompanyType  string
	IndustryType string
}

// SectionGenerator produces the fragment for one report section.
type SectionGenerator interface {
	Section() string
	Generate(ctx context.Context, req Request) (Fragment, error)
}

func newFragment(section, body string) Fragment {
	return Fragment{Section: section, Body: body, GeneratedAt: time.Now()}
}

// dataJSON renders a data-source map as indented JSON for prompt embedding.
func dataJSON(data map[string]interface{}) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize prompt data: %w", err)
	}
	return string(b), nil
}
