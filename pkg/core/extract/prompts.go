package extract

import "fmt"

// agentNames give each per-section call an identity; the name anchors the
// system prompt and shows up in logs.
var agentNames = map[string]string{
	SectionCompanyInfo:        "CompanyInfoExtractor",
	SectionFinancialMetrics:   "FinancialMetricsExtractor",
	SectionBalanceSheet:       "BalanceSheetExtractor",
	SectionKPIs:               "KPIExtractor",
	SectionValuation:          "ValuationExtractor",
	SectionIndustryBenchmarks: "BenchmarkExtractor",
	SectionRiskFactors:        "RiskFactorExtractor",
	SectionCashFlow:           "CashFlowExtractor",
}

const commonRules = `General rules:
- Report numeric values exactly as printed in the document. Do NOT convert units; unit normalization happens downstream.
- If the document shows more than three fiscal years, return exactly the three most recent, newest first. If fewer are present, return what exists without padding.
- Year values are strings; keep the document's fiscal-year formatting (e.g. "2024" or "FY2024").
- A value that is not stated in the document is 0 for numbers, "" for strings, false for booleans. Never omit a field.
- Do not calculate, estimate or infer values that are not directly stated.`

var sectionInstructions = map[string]string{
	SectionCompanyInfo: `Extract company identification data.
Synonyms: "year founded" may appear as "established", "incorporated" or "since"; "employees" as "headcount", "staff" or "FTEs"; "EIN" as "employer identification number", "tax ID" or "federal ID".
Sectors are business lines or segments listed in the document, not stock-exchange sector labels.`,

	SectionFinancialMetrics: `Extract the income statement view per fiscal year: revenue, COGS, operating expenses, EBITDA.
Synonyms: revenue may appear as "net sales", "turnover", "total revenues"; COGS as "cost of sales", "cost of revenue"; operating expenses as "SG&A plus other operating costs", "opex"; EBITDA may be stated directly or labeled "operating profit before depreciation and amortization".
If EBITDA is not directly stated, report 0; do not derive it from operating income.`,

	SectionBalanceSheet: `Extract balance-sheet items per fiscal year: total assets, total liabilities, equity, long-term debt, short-term debt, cash.
Synonyms: equity may appear as "shareholders' equity", "stockholders' equity", "net assets"; long-term debt as "non-current borrowings", "long-term loans"; short-term debt as "current portion of long-term debt" plus "short-term borrowings"; cash as "cash and cash equivalents".
Report the stated totals; do not sum line items yourself.`,

	SectionKPIs: `Extract ratio metrics per fiscal year: gross margin, operating margin, debt-to-equity, current ratio, revenue growth, market share.
Extract ONLY ratios that are directly stated in the document (typically in an MD&A, highlights or ratio table). Do not compute any ratio from raw figures. Margins and growth are decimals (12.5% -> 12.5).`,

	SectionValuation: `Extract valuation data: enterprise value, EV/EBITDA multiple, and a valuation range (low, high).
Extract ONLY values directly stated in the document, e.g. in a fairness opinion, banker's summary or management estimate. Do not compute a valuation.`,

	SectionIndustryBenchmarks: `Extract industry benchmark averages: gross margin, operating margin, debt-to-equity, revenue growth.
These only count when the document itself cites industry or peer averages. Do not supply averages from your own knowledge.`,

	SectionRiskFactors: `Assess risk factors from the document's risk discussion.
- customer_concentration: true if a small number of customers account for a large revenue share.
- geographic_concentration: true if revenue depends heavily on one country or region.
- supply_chain_concentration: true if key inputs come from few suppliers.
- debt_level and market_cyclicality: one of "low", "medium", "high" based on the document's own characterization; use "medium" when the document is silent.`,

	SectionCashFlow: `Extract the cash flow statement per fiscal year: net income, adjustments for non-cash items, changes in working capital, cash from operating / investing / financing activities, net cash flow, beginning and ending cash balance.
Synonyms: "adjustments for non-cash items" covers depreciation, amortization, stock-based compensation and impairments when aggregated; "net cash flow" may appear as "net increase (decrease) in cash".
Report stated subtotals; do not derive missing ones.`,
}

// systemPrompt composes the per-section agent prompt: identity, aim,
// section semantics and the shared formatting rules.
func systemPrompt(section string) string {
	return fmt.Sprintf(`You are %s, an agent that extracts structured data from a company's financial statement PDF text for an M&A due-diligence report.

%s

%s

Respond with a single JSON object conforming to the provided schema.`,
		agentNames[section], sectionInstructions[section], commonRules)
}

// userPrompt wraps the full PDF text. No chunking: per-section calls keep
// each response small even when the input is an 80-page statement.
func userPrompt(text string) string {
	return "Document text follows.\n\n----- BEGIN DOCUMENT -----\n" + text + "\n----- END DOCUMENT -----"
}
