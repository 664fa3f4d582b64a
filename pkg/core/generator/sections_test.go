package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"ma_diligence/pkg/core/datasource"
	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/prompt"
)

// recordingProvider returns a fixed response and keeps the prompts it saw.
type recordingProvider struct {
	response string
	systems  []string
	users    []string
}

func (p *recordingProvider) Generate(ctx context.Context, system, user string, opts llm.Options) (string, error) {
	p.systems = append(p.systems, system)
	p.users = append(p.users, user)
	return p.response, nil
}

func (p *recordingProvider) Name() string { return "recording" }

func testGateway(p llm.Provider) *llm.Gateway {
	g := llm.NewGateway(p)
	g.SetLimiter(rate.NewLimiter(rate.Inf, 1))
	g.SetTimeout(time.Second)
	g.SetMaxRetries(0)
	return g
}

func testRegistry() *prompt.Registry {
	return prompt.NewRegistry(prompt.NewMemoryStore())
}

func TestExecutiveSummaryRendersFiveSections(t *testing.T) {
	p := &recordingProvider{response: `{
		"Overview": "A manufacturer.",
		"Valuation": "Fairly valued.",
		"Financials": "Growing revenue.",
		"Recommendations": "Proceed to LOI.",
		"Conclusion": "Attractive target."
	}`}

	g := &ExecutiveSummary{
		Gateway:  testGateway(p),
		Registry: testRegistry(),
		Source:   datasource.DefaultFinancials(),
	}

	frag, err := g.Generate(context.Background(), Request{CompanyName: "Acme", Industry: "manufacturing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Section != SectionExecutiveSummary {
		t.Errorf("section = %s", frag.Section)
	}

	for _, heading := range []string{"Overview", "Valuation", "Financials", "Recommendations", "Conclusion"} {
		if !strings.Contains(frag.Body, "<h2>"+heading+"</h2>") {
			t.Errorf("body missing heading %s", heading)
		}
	}
	if !strings.Contains(frag.Body, "Attractive target.") {
		t.Error("body missing conclusion text")
	}
}

func TestExecutiveSummaryPromptCarriesCompanyAndData(t *testing.T) {
	p := &recordingProvider{response: `{"Overview":"x","Valuation":"x","Financials":"x","Recommendations":"x","Conclusion":"x"}`}
	g := &ExecutiveSummary{
		Gateway:  testGateway(p),
		Registry: testRegistry(),
		Source:   &datasource.Static{Values: map[string]interface{}{"revenue": 42.0}},
	}

	_, err := g.Generate(context.Background(), Request{CompanyName: "Acme Corp", Industry: "manufacturing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.users) != 1 {
		t.Fatalf("calls = %d, want 1", len(p.users))
	}
	user := p.users[0]
	if !strings.Contains(user, "Acme Corp") {
		t.Error("prompt missing company name")
	}
	if !strings.Contains(user, "\"revenue\": 42") {
		t.Error("prompt missing data block")
	}
}

func TestTableSectionUsesDataSource(t *testing.T) {
	p := &recordingProvider{response: "<table>...</table>"}
	g := &TableSection{
		Name:      SectionPnL,
		PromptKey: prompt.KeyFLA,
		Gateway:   testGateway(p),
		Registry:  testRegistry(),
		Source:    &datasource.Synthetic{Seed: 7},
	}

	frag, err := g.Generate(context.Background(), Request{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Section != SectionPnL {
		t.Errorf("section = %s", frag.Section)
	}
	if !strings.Contains(p.users[0], "yearly_data") {
		t.Error("prompt missing the synthetic data block")
	}
}

func TestConsultantSectionRendersTemplateVars(t *testing.T) {
	p := &recordingProvider{response: "consultant output"}
	g := &ConsultantSection{
		Name:      SectionHumanCapital,
		PromptKey: prompt.KeyHCASection1,
		Gateway:   testGateway(p),
		Registry:  testRegistry(),
	}

	req := Request{
		Phase:        "Integration",
		Task:         "Retention Plan",
		CompanyType:  "manufacturer",
		IndustryType: "industrials",
	}
	frag, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Body != "consultant output" {
		t.Errorf("body = %q", frag.Body)
	}
	user := p.users[0]
	for _, want := range []string{"Integration", "Retention Plan", "manufacturer", "industrials"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestValuationSectionMethod(t *testing.T) {
	p := &recordingProvider{response: "valuation text"}
	g := &ValuationSection{
		Name:     SectionDCF,
		Method:   "Discounted Cash Flow",
		Gateway:  testGateway(p),
		Registry: testRegistry(),
		Source:   &datasource.Synthetic{Seed: 7},
	}

	_, err := g.Generate(context.Background(), Request{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.users[0], "Discounted Cash Flow") {
		t.Error("prompt missing the valuation method")
	}
}

func TestGenerationErrorCarriesSection(t *testing.T) {
	g := &ConsultantSection{
		Name:      SectionLegal,
		PromptKey: "no_such_key",
		Gateway:   testGateway(&recordingProvider{}),
		Registry:  testRegistry(),
	}

	_, err := g.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("unknown prompt key must fail")
	}
	if !strings.Contains(err.Error(), SectionLegal) {
		t.Errorf("error %q does not name the section", err)
	}
}
