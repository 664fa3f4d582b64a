// Package extract implements the structured PDF extraction pipeline: one
// JSON-schema-constrained LLM call per CompanyReport leaf, unit
// normalization, and assembly into a validated report.
package extract

import (
	"context"
	"errors"
	"fmt"
	"math"

	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/pdf"
	"ma_diligence/pkg/models"
)

// SectionError wraps a failure in one extraction section. Other sections
// proceed; the caller decides whether a partial report is acceptable.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("extraction failed for section %s: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// Extractor turns a PDF financial statement into a CompanyReport.
type Extractor struct {
	gateway *llm.Gateway
	pdf     pdf.TextExtractor
}

func NewExtractor(gateway *llm.Gateway, textExtractor pdf.TextExtractor) *Extractor {
	return &Extractor{gateway: gateway, pdf: textExtractor}
}

// ExtractReport runs the full pipeline on raw PDF bytes.
func (e *Extractor) ExtractReport(ctx context.Context, pdfBytes []byte) (*models.CompanyReport, error) {
	text, err := e.pdf.ExtractText(ctx, pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("pdf text extraction failed: %w", err)
	}
	return e.ExtractFromText(ctx, text)
}

// ExtractFromText runs the per-section calls over already-extracted text.
// It always returns a complete report: failed sections keep their zero
// values and are reported through the joined error alongside the report.
func (e *Extractor) ExtractFromText(ctx context.Context, text string) (*models.CompanyReport, error) {
	units := DetectUnits(text)
	fmt.Printf("[extract] detected units: %s (factor %g)\n", units.Label, units.Factor)

	report := &models.CompanyReport{}
	user := userPrompt(text)

	var sectionErrs []error
	for _, section := range Sections {
		if err := e.extractSection(ctx, section, user, report); err != nil {
			fmt.Printf("[extract] section %s failed: %v\n", section, err)
			sectionErrs = append(sectionErrs, &SectionError{Section: section, Err: err})
			continue
		}
	}

	scaleReport(report, units)
	report.ApplyDefaults()

	if err := validateAssembled(report); err != nil {
		sectionErrs = append(sectionErrs, fmt.Errorf("assembled report failed validation: %w", err))
	}

	return report, errors.Join(sectionErrs...)
}

// extractSection performs one structured call and merges the result into
// the accumulator under the section's leaf.
func (e *Extractor) extractSection(ctx context.Context, section string, user string, report *models.CompanyReport) error {
	system := systemPrompt(section)
	schema := SchemaFor(section)

	switch section {
	case SectionCompanyInfo:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.CompanyInfo)
	case SectionFinancialMetrics:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.FinancialMetrics)
	case SectionBalanceSheet:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.BalanceSheet)
	case SectionKPIs:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.KPIs)
	case SectionValuation:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.Valuation)
	case SectionIndustryBenchmarks:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.IndustryBenchmarks)
	case SectionRiskFactors:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.RiskFactors)
	case SectionCashFlow:
		return e.gateway.ChatCompleteStructured(ctx, system, user, schema, &report.CashFlow)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
}

// scaleReport normalizes monetary values to millions. Balance-sheet items
// are rounded to whole numbers; cash-flow and P&L items keep their
// decimals. Ratio leaves (KPIs, benchmarks) are never scaled.
func scaleReport(report *models.CompanyReport, units Units) {
	if units.Factor == 1 {
		// Still round balance-sheet items when the source is already in millions.
		for i := range report.BalanceSheet.YearlyData {
			roundBalanceSheetYear(&report.BalanceSheet.YearlyData[i])
		}
		return
	}
	f := units.Factor

	for i := range report.FinancialMetrics.YearlyData {
		y := &report.FinancialMetrics.YearlyData[i]
		y.Revenue *= f
		y.COGS *= f
		y.OperatingExpenses *= f
		y.EBITDA *= f
	}

	for i := range report.BalanceSheet.YearlyData {
		y := &report.BalanceSheet.YearlyData[i]
		y.TotalAssets *= f
		y.TotalLiabilities *= f
		y.Equity *= f
		y.Debt.LongTerm *= f
		y.Debt.ShortTerm *= f
		y.Cash *= f
		roundBalanceSheetYear(y)
	}

	for i := range report.CashFlow.YearlyData {
		y := &report.CashFlow.YearlyData[i]
		y.NetIncome *= f
		y.AdjustmentsForNonCashItems *= f
		y.ChangesInWorkingCapital *= f
		y.CashFromOperatingActivities *= f
		y.CashFromInvestingActivities *= f
		y.CashFromFinancingActivities *= f
		y.NetCashFlow *= f
		y.BeginningCashBalance *= f
		y.EndingCashBalance *= f
	}

	report.Valuation.EnterpriseValue *= f
	report.Valuation.ValuationRange.Low *= f
	report.Valuation.ValuationRange.High *= f
	// EV/EBITDA is a multiple, not a monetary value.
}

func roundBalanceSheetYear(y *models.BalanceSheetYear) {
	y.TotalAssets = math.Round(y.TotalAssets)
	y.TotalLiabilities = math.Round(y.TotalLiabilities)
	y.Equity = math.Round(y.Equity)
	y.Debt.LongTerm = math.Round(y.Debt.LongTerm)
	y.Debt.ShortTerm = math.Round(y.Debt.ShortTerm)
	y.Cash = math.Round(y.Cash)
}

// validateAssembled checks the whole accumulator against the top-level
// CompanyReport schema.
func validateAssembled(report *models.CompanyReport) error {
	return llm.ValidateValue(ReportSchema(), report)
}
