package extract

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/models"
)

// sectionProvider answers each structured call with canned JSON, dispatched
// on the agent name in the system prompt.
type sectionProvider struct {
	responses map[string]string
	errs      map[string]error
}

func (p *sectionProvider) Generate(ctx context.Context, system, user string, opts llm.Options) (string, error) {
	for _, section := range Sections {
		if !strings.Contains(system, agentNames[section]) {
			continue
		}
		if err, ok := p.errs[section]; ok {
			return "", err
		}
		if resp, ok := p.responses[section]; ok {
			return resp, nil
		}
		return marshalZero(section), nil
	}
	return "{}", nil
}

func (p *sectionProvider) Name() string { return "section-stub" }

// marshalZero produces minimal valid JSON for a section: empty yearly
// lists, valid enum values.
func marshalZero(section string) string {
	var v interface{}
	switch section {
	case SectionCompanyInfo:
		v = models.CompanyInfo{Sectors: []string{}}
	case SectionFinancialMetrics:
		v = models.FinancialMetrics{YearlyData: []models.FinancialMetricsYear{}}
	case SectionBalanceSheet:
		v = models.BalanceSheet{YearlyData: []models.BalanceSheetYear{}}
	case SectionKPIs:
		v = models.KPIs{YearlyData: []models.KPIYear{}}
	case SectionValuation:
		v = models.Valuation{}
	case SectionIndustryBenchmarks:
		v = models.IndustryBenchmarks{}
	case SectionRiskFactors:
		v = models.RiskFactors{DebtLevel: "medium", MarketCyclicality: "medium"}
	case SectionCashFlow:
		v = models.CashFlow{YearlyData: []models.CashFlowYear{}}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func testExtractor(p llm.Provider) *Extractor {
	g := llm.NewGateway(p)
	g.SetLimiter(rate.NewLimiter(rate.Inf, 1))
	g.SetTimeout(time.Second)
	g.SetMaxRetries(0)
	return NewExtractor(g, nil)
}

func TestExtractFromTextTotality(t *testing.T) {
	e := testExtractor(&sectionProvider{})

	report, err := e.ExtractFromText(context.Background(), "Annual Report (in millions)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatal("report must never be nil")
	}

	// Every list initialized, every enum defaulted: a sparse document still
	// yields a schema-complete report.
	if report.FinancialMetrics.YearlyData == nil || report.CompanyInfo.Sectors == nil {
		t.Error("lists must be empty, not nil")
	}
	if report.RiskFactors.DebtLevel != "medium" {
		t.Errorf("debt_level = %q, want medium", report.RiskFactors.DebtLevel)
	}
}

func TestExtractFromTextPartialFailure(t *testing.T) {
	p := &sectionProvider{errs: map[string]error{
		SectionKPIs: &llm.Error{Kind: llm.KindPolicy, Provider: "section-stub", Message: "refused"},
	}}
	e := testExtractor(p)

	report, err := e.ExtractFromText(context.Background(), "Annual Report")
	if report == nil {
		t.Fatal("partial failure must still produce a report")
	}
	if err == nil {
		t.Fatal("failed section must be reported")
	}
	if report.KPIs.YearlyData == nil {
		t.Error("failed section keeps its defaulted zero value")
	}
	// Other sections are unaffected.
	if report.RiskFactors.MarketCyclicality != "medium" {
		t.Errorf("market_cyclicality = %q", report.RiskFactors.MarketCyclicality)
	}
}

func TestExtractScalesBillionsToMillions(t *testing.T) {
	p := &sectionProvider{responses: map[string]string{}}
	p.responses[SectionBalanceSheet] = mustJSON(t, models.BalanceSheet{YearlyData: []models.BalanceSheetYear{
		{Year: "2024", TotalAssets: 2.5, TotalLiabilities: 1.2, Equity: 1.3, Cash: 0.4},
	}})
	p.responses[SectionFinancialMetrics] = mustJSON(t, models.FinancialMetrics{YearlyData: []models.FinancialMetricsYear{
		{Year: "2024", Revenue: 1.5, COGS: 0.6, OperatingExpenses: 0.4, EBITDA: 0.5},
	}})
	e := testExtractor(p)

	report, err := e.ExtractFromText(context.Background(), "Consolidated statements (in billions)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bs := report.BalanceSheet.YearlyData[0]
	if bs.TotalAssets != 2500 {
		t.Errorf("total_assets = %v, want 2500", bs.TotalAssets)
	}
	if bs.Cash != 400 {
		t.Errorf("cash = %v, want 400", bs.Cash)
	}
	fm := report.FinancialMetrics.YearlyData[0]
	if fm.Revenue != 1500 {
		t.Errorf("revenue = %v, want 1500", fm.Revenue)
	}
}

func TestExtractScalesThousandsToMillions(t *testing.T) {
	p := &sectionProvider{responses: map[string]string{}}
	p.responses[SectionCashFlow] = mustJSON(t, models.CashFlow{YearlyData: []models.CashFlowYear{
		{Year: "2024", NetIncome: 4500, CashFromOperatingActivities: 6200},
	}})
	e := testExtractor(p)

	report, err := e.ExtractFromText(context.Background(), "Statements of Cash Flows (in thousands)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cf := report.CashFlow.YearlyData[0]
	if cf.NetIncome != 4.5 {
		t.Errorf("net_income = %v, want 4.5", cf.NetIncome)
	}
	if cf.CashFromOperatingActivities != 6.2 {
		t.Errorf("cash_from_operating_activities = %v, want 6.2", cf.CashFromOperatingActivities)
	}
}

func TestExtractOrdersAndTruncatesYears(t *testing.T) {
	p := &sectionProvider{responses: map[string]string{}}
	p.responses[SectionFinancialMetrics] = mustJSON(t, models.FinancialMetrics{YearlyData: []models.FinancialMetricsYear{
		{Year: "2021", Revenue: 1},
		{Year: "2024", Revenue: 4},
		{Year: "2022", Revenue: 2},
		{Year: "2023", Revenue: 3},
	}})
	e := testExtractor(p)

	report, err := e.ExtractFromText(context.Background(), "Annual Report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	years := report.FinancialMetrics.YearlyData
	if len(years) != models.MaxYears {
		t.Fatalf("len = %d, want %d", len(years), models.MaxYears)
	}
	want := []string{"2024", "2023", "2022"}
	for i, w := range want {
		if years[i].Year != w {
			t.Errorf("years[%d] = %s, want %s", i, years[i].Year, w)
		}
	}
}
