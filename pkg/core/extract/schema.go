package extract

import (
	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/models"
)

// Section identifiers, one per CompanyReport leaf.
const (
	SectionCompanyInfo        = "company_info"
	SectionFinancialMetrics   = "financial_metrics"
	SectionBalanceSheet       = "balance_sheet"
	SectionKPIs               = "kpis"
	SectionValuation          = "valuation"
	SectionIndustryBenchmarks = "industry_benchmarks"
	SectionRiskFactors        = "risk_factors"
	SectionCashFlow           = "cash_flow"
)

// Sections lists every extraction section. Order does not matter for the
// assembled report; it is fixed here for stable logs.
var Sections = []string{
	SectionCompanyInfo,
	SectionFinancialMetrics,
	SectionBalanceSheet,
	SectionKPIs,
	SectionValuation,
	SectionIndustryBenchmarks,
	SectionRiskFactors,
	SectionCashFlow,
}

// sectionSchemas is the build-time schema registry: one strictified JSON
// schema per leaf, reflected from the declared data model and shared with
// the gateway's validator.
var sectionSchemas = map[string]map[string]interface{}{
	SectionCompanyInfo:        llm.Strictify(llm.MustSchemaOf(models.CompanyInfo{})),
	SectionFinancialMetrics:   llm.Strictify(llm.MustSchemaOf(models.FinancialMetrics{})),
	SectionBalanceSheet:       llm.Strictify(llm.MustSchemaOf(models.BalanceSheet{})),
	SectionKPIs:               llm.Strictify(llm.MustSchemaOf(models.KPIs{})),
	SectionValuation:          llm.Strictify(llm.MustSchemaOf(models.Valuation{})),
	SectionIndustryBenchmarks: llm.Strictify(llm.MustSchemaOf(models.IndustryBenchmarks{})),
	SectionRiskFactors:        llm.Strictify(llm.MustSchemaOf(models.RiskFactors{})),
	SectionCashFlow:           llm.Strictify(llm.MustSchemaOf(models.CashFlow{})),
}

// reportSchema validates the assembled CompanyReport as a whole.
var reportSchema = llm.Strictify(llm.MustSchemaOf(models.CompanyReport{}))

// SchemaFor returns the strictified schema for a section; nil for unknown
// sections.
func SchemaFor(section string) map[string]interface{} {
	return sectionSchemas[section]
}

// ReportSchema returns the strictified schema of the full CompanyReport.
func ReportSchema() map[string]interface{} {
	return reportSchema
}
