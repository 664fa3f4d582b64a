// Package models defines the CompanyReport data model: the strongly-typed
// target that the structured PDF extraction pipeline populates.
// All fields are value types so that JSON encoding always emits a complete
// object; absent source data yields zero values, never null.
package models

// CompanyReport is the assembled output of the structured extraction
// pipeline. Each top-level field corresponds to one extraction agent.
type CompanyReport struct {
	CompanyInfo        CompanyInfo        `json:"company_info"`
	FinancialMetrics   FinancialMetrics   `json:"financial_metrics"`
	BalanceSheet       BalanceSheet       `json:"balance_sheet"`
	KPIs               KPIs               `json:"kpis"`
	Valuation          Valuation          `json:"valuation"`
	IndustryBenchmarks IndustryBenchmarks `json:"industry_benchmarks"`
	RiskFactors        RiskFactors        `json:"risk_factors"`
	CashFlow           CashFlow           `json:"cash_flow"`
}

// CompanyInfo holds basic identification data for the target company.
type CompanyInfo struct {
	Name        string   `json:"name"`
	Industry    string   `json:"industry"`
	Sectors     []string `json:"sectors"`
	YearFounded string   `json:"year_founded"`
	Employees   int      `json:"employees"`
	Website     string   `json:"website"`
	EIN         string   `json:"ein"`
}

// FinancialMetrics carries the P&L view per fiscal year, in millions.
type FinancialMetrics struct {
	YearlyData []FinancialMetricsYear `json:"yearly_data"`
}

type FinancialMetricsYear struct {
	// Year is a string to tolerate fiscal-year formatting ("FY2024", "2024/25").
	Year              string  `json:"year"`
	Revenue           float64 `json:"revenue"`
	COGS              float64 `json:"cogs"`
	OperatingExpenses float64 `json:"operating_expenses"`
	EBITDA            float64 `json:"ebitda"`
}

// BalanceSheet carries balance-sheet items per fiscal year, in millions,
// rounded to the nearest integer.
type BalanceSheet struct {
	YearlyData []BalanceSheetYear `json:"yearly_data"`
}

type BalanceSheetYear struct {
	Year             string  `json:"year"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	Equity           float64 `json:"equity"`
	Debt             Debt    `json:"debt"`
	Cash             float64 `json:"cash"`
}

type Debt struct {
	LongTerm  float64 `json:"long_term"`
	ShortTerm float64 `json:"short_term"`
}

// KPIs are ratio metrics; values are extracted as stated, never computed.
type KPIs struct {
	YearlyData []KPIYear `json:"yearly_data"`
}

type KPIYear struct {
	Year            string  `json:"year"`
	GrossMargin     float64 `json:"gross_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	DebtToEquity    float64 `json:"debt_to_equity"`
	CurrentRatio    float64 `json:"current_ratio"`
	RevenueGrowth   float64 `json:"revenue_growth"`
	MarketShare     float64 `json:"market_share"`
}

// Valuation holds enterprise-value data as stated in the source document.
type Valuation struct {
	EnterpriseValue  float64        `json:"enterprise_value"`
	EVEBITDAMultiple float64        `json:"ev_ebitda_multiple"`
	ValuationRange   ValuationRange `json:"valuation_range"`
}

type ValuationRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// IndustryBenchmarks are peer-average ratios as stated in the source.
type IndustryBenchmarks struct {
	AvgGrossMargin     float64 `json:"avg_gross_margin"`
	AvgOperatingMargin float64 `json:"avg_operating_margin"`
	AvgDebtToEquity    float64 `json:"avg_debt_to_equity"`
	AvgRevenueGrowth   float64 `json:"avg_revenue_growth"`
}

// RiskFactors captures concentration flags and two graded risk levels.
type RiskFactors struct {
	CustomerConcentration    bool   `json:"customer_concentration"`
	GeographicConcentration  bool   `json:"geographic_concentration"`
	SupplyChainConcentration bool   `json:"supply_chain_concentration"`
	DebtLevel                string `json:"debt_level" jsonschema:"enum=low,enum=medium,enum=high"`
	MarketCyclicality        string `json:"market_cyclicality" jsonschema:"enum=low,enum=medium,enum=high"`
}

// CashFlow carries the cash-flow statement per fiscal year, in millions.
// Values keep their decimals; only balance-sheet items are rounded.
type CashFlow struct {
	YearlyData []CashFlowYear `json:"yearly_data"`
}

type CashFlowYear struct {
	Year                        string  `json:"year"`
	NetIncome                   float64 `json:"net_income"`
	AdjustmentsForNonCashItems  float64 `json:"adjustments_for_non_cash_items"`
	ChangesInWorkingCapital     float64 `json:"changes_in_working_capital"`
	CashFromOperatingActivities float64 `json:"cash_from_operating_activities"`
	CashFromInvestingActivities float64 `json:"cash_from_investing_activities"`
	CashFromFinancingActivities float64 `json:"cash_from_financing_activities"`
	NetCashFlow                 float64 `json:"net_cash_flow"`
	BeginningCashBalance        float64 `json:"beginning_cash_balance"`
	EndingCashBalance           float64 `json:"ending_cash_balance"`
}

// MaxYears limits yearly lists to the three most recent fiscal years.
const MaxYears = 3

// ApplyDefaults normalizes a report in place: yearly lists are sorted
// newest-first and truncated to MaxYears, nil slices become empty, and
// graded risk levels fall back to "medium".
func (r *CompanyReport) ApplyDefaults() {
	if r.CompanyInfo.Sectors == nil {
		r.CompanyInfo.Sectors = []string{}
	}

	sortYearsDesc(len(r.FinancialMetrics.YearlyData), func(i int) string { return r.FinancialMetrics.YearlyData[i].Year }, func(i, j int) {
		r.FinancialMetrics.YearlyData[i], r.FinancialMetrics.YearlyData[j] = r.FinancialMetrics.YearlyData[j], r.FinancialMetrics.YearlyData[i]
	})
	sortYearsDesc(len(r.BalanceSheet.YearlyData), func(i int) string { return r.BalanceSheet.YearlyData[i].Year }, func(i, j int) {
		r.BalanceSheet.YearlyData[i], r.BalanceSheet.YearlyData[j] = r.BalanceSheet.YearlyData[j], r.BalanceSheet.YearlyData[i]
	})
	sortYearsDesc(len(r.KPIs.YearlyData), func(i int) string { return r.KPIs.YearlyData[i].Year }, func(i, j int) {
		r.KPIs.YearlyData[i], r.KPIs.YearlyData[j] = r.KPIs.YearlyData[j], r.KPIs.YearlyData[i]
	})
	sortYearsDesc(len(r.CashFlow.YearlyData), func(i int) string { return r.CashFlow.YearlyData[i].Year }, func(i, j int) {
		r.CashFlow.YearlyData[i], r.CashFlow.YearlyData[j] = r.CashFlow.YearlyData[j], r.CashFlow.YearlyData[i]
	})

	if len(r.FinancialMetrics.YearlyData) > MaxYears {
		r.FinancialMetrics.YearlyData = r.FinancialMetrics.YearlyData[:MaxYears]
	}
	if len(r.BalanceSheet.YearlyData) > MaxYears {
		r.BalanceSheet.YearlyData = r.BalanceSheet.YearlyData[:MaxYears]
	}
	if len(r.KPIs.YearlyData) > MaxYears {
		r.KPIs.YearlyData = r.KPIs.YearlyData[:MaxYears]
	}
	if len(r.CashFlow.YearlyData) > MaxYears {
		r.CashFlow.YearlyData = r.CashFlow.YearlyData[:MaxYears]
	}
	if r.FinancialMetrics.YearlyData == nil {
		r.FinancialMetrics.YearlyData = []FinancialMetricsYear{}
	}
	if r.BalanceSheet.YearlyData == nil {
		r.BalanceSheet.YearlyData = []BalanceSheetYear{}
	}
	if r.KPIs.YearlyData == nil {
		r.KPIs.YearlyData = []KPIYear{}
	}
	if r.CashFlow.YearlyData == nil {
		r.CashFlow.YearlyData = []CashFlowYear{}
	}

	if !validRiskLevel(r.RiskFactors.DebtLevel) {
		r.RiskFactors.DebtLevel = "medium"
	}
	if !validRiskLevel(r.RiskFactors.MarketCyclicality) {
		r.RiskFactors.MarketCyclicality = "medium"
	}
}

func validRiskLevel(s string) bool {
	return s == "low" || s == "medium" || s == "high"
}

// sortYearsDesc sorts a yearly list newest-first through an accessor and a
// swap callback so the helper works across all yearly slice types. Year
// strings compare lexicographically, which orders plain years and
// "FY"-prefixed years alike.
func sortYearsDesc(n int, year func(int) string, swap func(int, int)) {
	for i := 0; i < n; i++ {
		max := i
		for j := i + 1; j < n; j++ {
			if year(j) > year(max) {
				max = j
			}
		}
		if max != i {
			swap(i, max)
		}
	}
}
