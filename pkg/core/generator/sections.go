package generator

import (
	"context"
	"fmt"
	"strings"

	"ma_diligence/pkg/core/datasource"
	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/prompt"
	"ma_diligence/pkg/core/research"
	"ma_diligence/pkg/core/scrape"
	"ma_diligence/pkg/core/utils"
)

// summaryPayload is the structured shape of the executive summary call.
type summaryPayload struct {
	Overview        string `json:"Overview"`
	Valuation       string `json:"Valuation"`
	Financials      string `json:"Financials"`
	Recommendations string `json:"Recommendations"`
	Conclusion      string `json:"Conclusion"`
}

var summarySchema = llm.MustSchemaOf(summaryPayload{})

// ExecutiveSummary generates the lead section from a financial data block.
type ExecutiveSummary struct {
	Gateway  *llm.Gateway
	Registry *prompt.Registry
	Source   datasource.Source
}

var _ SectionGenerator = (*ExecutiveSummary)(nil)

func (g *ExecutiveSummary) Section() string { return SectionExecutiveSummary }

func (g *ExecutiveSummary) Generate(ctx context.Context, req Request) (Fragment, error) {
	tmpl, err := g.Registry.Get(ctx, prompt.KeyExecutiveSummary)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	data, err := g.Source.Data(ctx, g.Section())
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	dataBlock, err := dataJSON(data)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	user, err := prompt.Render(prompt.KeyExecutiveSummary, tmpl, map[string]interface{}{
		"CompanyName": req.CompanyName,
		"Industry":    req.Industry,
		"Data":        dataBlock,
	})
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	var payload summaryPayload
	if err := g.Gateway.ChatCompleteStructured(ctx, "You are an M&A analyst.", user, summarySchema, &payload); err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	return newFragment(g.Section(), renderSummaryHTML(payload)), nil
}

func renderSummaryHTML(p summaryPayload) string {
	var b strings.Builder
	parts := []struct{ heading, body string }{
		{"Overview", p.Overview},
		{"Valuation", p.Valuation},
		{"Financials", p.Financials},
		{"Recommendations", p.Recommendations},
		{"Conclusion", p.Conclusion},
	}
	for _, part := range parts {
		b.WriteString(fmt.Sprintf("<h2>%s</h2>\n<p>%s</p>\n", part.heading, part.body))
	}
	return b.String()
}

// profilePayload is the structured shape of the company profile call.
type profilePayload struct {
	CompanyOverview         string      `json:"companyOverview"`
	People                  string      `json:"people"`
	ProductServiceOfferings string      `json:"productServiceOfferings"`
	TechnologyStack         string      `json:"technologyStack"`
	MarketPosition          string      `json:"marketPosition"`
	ProductPricingPosition  string      `json:"productPricingPosition"`
	SwotAnalysis            swotPayload `json:"swotAnalysis"`
}

type swotPayload struct {
	Strengths     string `json:"strengths"`
	Weaknesses    string `json:"weaknesses"`
	Opportunities string `json:"opportunities"`
	Threats       string `json:"threats"`
}

var profileSchema = llm.MustSchemaOf(profilePayload{})

// AboutCompany scrapes the company website and drafts a profile.
type AboutCompany struct {
	Gateway  *llm.Gateway
	Registry *prompt.Registry
	Scraper  *scrape.Client
}

var _ SectionGenerator = (*AboutCompany)(nil)

func (g *AboutCompany) Section() string { return SectionAboutCompany }

func (g *AboutCompany) Generate(ctx context.Context, req Request) (Fragment, error) {
	tmpl, err := g.Registry.Get(ctx, prompt.KeyAboutCompany)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	scraped, err := g.Scraper.Scrape(ctx, req.WebsiteURL,
		fmt.Sprintf("Extract company profile information about %s", req.CompanyName))
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	source := &datasource.Scraped{Values: scraped}
	data, err := source.Data(ctx, g.Section())
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	scrapedBlock, err := dataJSON(data)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	user, err := prompt.Render(prompt.KeyAboutCompany, tmpl, map[string]interface{}{
		"CompanyName": req.CompanyName,
		"Website":     req.WebsiteURL,
		"ScrapedData": scrapedBlock,
	})
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	var payload profilePayload
	if err := g.Gateway.ChatCompleteStructured(ctx, "You are an M&A analyst.", user, profileSchema, &payload); err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	return newFragment(g.Section(), renderProfileHTML(payload)), nil
}

func renderProfileHTML(p profilePayload) string {
	var b strings.Builder
	parts := []struct{ heading, body string }{
		{"Company Overview", p.CompanyOverview},
		{"People", p.People},
		{"Product & Service Offerings", p.ProductServiceOfferings},
		{"Technology Stack", p.TechnologyStack},
		{"Market Position", p.MarketPosition},
		{"Product Pricing Position", p.ProductPricingPosition},
	}
	for _, part := range parts {
		b.WriteString(fmt.Sprintf("<h2>%s</h2>\n%s\n", part.heading, part.body))
	}
	b.WriteString("<h2>SWOT Analysis</h2>\n")
	b.WriteString(fmt.Sprintf("<h3>Strengths</h3>\n%s\n", p.SwotAnalysis.Strengths))
	b.WriteString(fmt.Sprintf("<h3>Weaknesses</h3>\n%s\n", p.SwotAnalysis.Weaknesses))
	b.WriteString(fmt.Sprintf("<h3>Opportunities</h3>\n%s\n", p.SwotAnalysis.Opportunities))
	b.WriteString(fmt.Sprintf("<h3>Threats</h3>\n%s\n", p.SwotAnalysis.Threats))
	return b.String()
}

// MarketAnalysis delegates to the two-agent research team.
type MarketAnalysis struct {
	Team *research.Team
}

var _ SectionGenerator = (*MarketAnalysis)(nil)

func (g *MarketAnalysis) Section() string { return SectionMarketAnalysis }

func (g *MarketAnalysis) Generate(ctx context.Context, req Request) (Fragment, error) {
	topic := req.Industry
	if topic == "" {
		topic = req.CompanyName
	}
	report, err := g.Team.Run(ctx, topic)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	return newFragment(g.Section(), utils.CleanMarkdown(report)), nil
}

// TableSection covers the three statement reviews (P&L, balance sheet,
// cash flow): a prose call over whatever numbers the data source supplies.
type TableSection struct {
	Name      string // one of SectionPnL, SectionBalanceSheet, SectionCashFlow
	PromptKey string
	Gateway   *llm.Gateway
	Registry  *prompt.Registry
	Source    datasource.Source
}

var _ SectionGenerator = (*TableSection)(nil)

func (g *TableSection) Section() string { return g.Name }

func (g *TableSection) Generate(ctx context.Context, req Request) (Fragment, error) {
	tmpl, err := g.Registry.Get(ctx, g.PromptKey)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	data, err := g.Source.Data(ctx, g.Section())
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	dataBlock, err := dataJSON(data)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	user, err := prompt.Render(g.PromptKey, tmpl, map[string]interface{}{
		"CompanyName": req.CompanyName,
		"Data":        dataBlock,
	})
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	text, err := g.Gateway.ChatComplete(ctx, "You are an M&A analyst.", user, -1, 0)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	return newFragment(g.Section(), utils.CleanMarkdown(text)), nil
}

// ValuationSection covers valuation, dcf and cca, which share one template
// parameterized by method.
type ValuationSection struct {
	Name     string // one of SectionValuation, SectionDCF, SectionCCA
	Method   string // "Comprehensive", "DCF", "Comparable Company Analysis"
	Gateway  *llm.Gateway
	Registry *prompt.Registry
	Source   datasource.Source
}

var _ SectionGenerator = (*ValuationSection)(nil)

func (g *ValuationSection) Section() string { return g.Name }

func (g *ValuationSection) Generate(ctx context.Context, req Request) (Fragment, error) {
	tmpl, err := g.Registry.Get(ctx, prompt.KeyValuation)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	data, err := g.Source.Data(ctx, g.Section())
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	dataBlock, err := dataJSON(data)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	user, err := prompt.Render(prompt.KeyValuation, tmpl, map[string]interface{}{
		"CompanyName": req.CompanyName,
		"Method":      g.Method,
		"Data":        dataBlock,
	})
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	text, err := g.Gateway.ChatComplete(ctx, "You are a valuation specialist.", user, -1, 0)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	return newFragment(g.Section(), utils.CleanMarkdown(text)), nil
}

// ConsultantSection covers the four consultant-style sections (human
// capital, operational, legal, risk) driven by the HCA templates on the
// text-generation backend.
type ConsultantSection struct {
	Name      string
	PromptKey string // one of the HCA_Section_N keys
	Gateway   *llm.Gateway
	Registry  *prompt.Registry
}

var _ SectionGenerator = (*ConsultantSection)(nil)

func (g *ConsultantSection) Section() string { return g.Name }

func (g *ConsultantSection) Generate(ctx context.Context, req Request) (Fragment, error) {
	tmpl, err := g.Registry.Get(ctx, g.PromptKey)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	user, err := prompt.Render(g.PromptKey, tmpl, map[string]interface{}{
		"Phase":        req.Phase,
		"Task":         req.Task,
		"CompanyType":  req.CompanyType,
		"IndustryType": req.IndustryType,
	})
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	text, err := g.Gateway.ChatComplete(ctx, "You are a due-diligence consultant.", user, -1, 0)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	return newFragment(g.Section(), utils.CleanMarkdown(text)), nil
}
