package orchestrator

import (
	"ma_diligence/pkg/core/datasource"
	"ma_diligence/pkg/core/generator"
	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/prompt"
	"ma_diligence/pkg/core/research"
	"ma_diligence/pkg/core/scrape"
)

// Deps collects everything the standard generator set needs. Chat carries
// the structured and prose sections; Text carries the consultant sections
// on the text-generation backend. Financials defaults to synthetic data and
// is swapped for an extracted report after a PDF upload.
type Deps struct {
	Chat       *llm.Gateway
	Text       *llm.Gateway
	Registry   *prompt.Registry
	Scraper    *scrape.Client
	Team       *research.Team
	Financials datasource.Source
	Summary    datasource.Source
}

// Build wires the full standard generator set into a new orchestrator.
func Build(d Deps) *Orchestrator {
	if d.Financials == nil {
		d.Financials = &datasource.Synthetic{}
	}
	if d.Summary == nil {
		d.Summary = datasource.DefaultFinancials()
	}

	o := New()

	o.Register(&generator.ExecutiveSummary{Gateway: d.Chat, Registry: d.Registry, Source: d.Summary})
	o.Register(&generator.AboutCompany{Gateway: d.Chat, Registry: d.Registry, Scraper: d.Scraper})
	o.Register(&generator.MarketAnalysis{Team: d.Team})

	pnl := &generator.TableSection{Name: generator.SectionPnL, PromptKey: prompt.KeyFLA, Gateway: d.Chat, Registry: d.Registry, Source: d.Financials}
	bs := &generator.TableSection{Name: generator.SectionBalanceSheet, PromptKey: prompt.KeyBalanceSheet, Gateway: d.Chat, Registry: d.Registry, Source: d.Financials}
	cf := &generator.TableSection{Name: generator.SectionCashFlow, PromptKey: prompt.KeyCashFlow, Gateway: d.Chat, Registry: d.Registry, Source: d.Financials}
	o.Register(pnl)
	o.Register(bs)
	o.Register(cf)

	o.Register(&generator.ValuationSection{Name: generator.SectionValuation, Method: "Comprehensive", Gateway: d.Chat, Registry: d.Registry, Source: d.Financials})
	o.Register(&generator.ValuationSection{Name: generator.SectionDCF, Method: "Discounted Cash Flow", Gateway: d.Chat, Registry: d.Registry, Source: d.Financials})
	o.Register(&generator.ValuationSection{Name: generator.SectionCCA, Method: "Comparable Company Analysis", Gateway: d.Chat, Registry: d.Registry, Source: d.Financials})

	o.Register(&generator.ConsultantSection{Name: generator.SectionHumanCapital, PromptKey: prompt.KeyHCASection1, Gateway: d.Text, Registry: d.Registry})
	o.Register(&generator.ConsultantSection{Name: generator.SectionOperational, PromptKey: prompt.KeyHCASection2, Gateway: d.Text, Registry: d.Registry})
	o.Register(&generator.ConsultantSection{Name: generator.SectionLegal, PromptKey: prompt.KeyHCASection3, Gateway: d.Text, Registry: d.Registry})
	o.Register(&generator.ConsultantSection{Name: generator.SectionRisk, PromptKey: prompt.KeyHCASection4, Gateway: d.Text, Registry: d.Registry})

	o.RegisterBeyondFR(&generator.BeyondFR{
		Gateway:      d.Chat,
		Registry:     d.Registry,
		PnL:          pnl,
		BalanceSheet: bs,
		CashFlow:     cf,
	})

	return o
}
