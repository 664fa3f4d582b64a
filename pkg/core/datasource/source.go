// Package datasource produces the numeric inputs fed to section prompts.
// Four provenance modes exist (synthetic, static, PDF-extracted,
// web-scraped); generators receive a plain map and cannot tell which mode
// produced it.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"

	"ma_diligence/pkg/models"
)

// Source supplies the data block for one section prompt.
type Source interface {
	Data(ctx context.Context, section string) (map[string]interface{}, error)
}

// Static returns a fixed data set regardless of section. The executive
// summary's default financials use this mode.
type Static struct {
	Values map[string]interface{}
}

var _ Source = (*Static)(nil)

func (s *Static) Data(ctx context.Context, section string) (map[string]interface{}, error) {
	return s.Values, nil
}

// DefaultFinancials is the compiled-in data set behind the executive
// summary when no PDF has been uploaded. Placeholder figures, in millions.
func DefaultFinancials() *Static {
	return &Static{Values: map[string]interface{}{
		"revenue":            []float64{1250.0, 1140.0, 1010.0},
		"ebitda":             []float64{262.0, 228.0, 192.0},
		"net_income":         []float64{148.0, 121.0, 96.0},
		"total_assets":       2380.0,
		"total_liabilities":  1290.0,
		"equity":             1090.0,
		"cash":               310.0,
		"enterprise_value":   2100.0,
		"ev_ebitda_multiple": 8.0,
		"years":              []string{"2025", "2024", "2023"},
	}}
}

// FromReport adapts an extracted CompanyReport: each section sees its
// matching leaf, serialized to a plain map.
type FromReport struct {
	Report *models.CompanyReport
}

var _ Source = (*FromReport)(nil)

func (s *FromReport) Data(ctx context.Context, section string) (map[string]interface{}, error) {
	if s.Report == nil {
		return nil, fmt.Errorf("no extracted report available")
	}

	var leaf interface{}
	switch section {
	case "pnl":
		leaf = s.Report.FinancialMetrics
	case "balance_sheet":
		leaf = s.Report.BalanceSheet
	case "cash_flow":
		leaf = s.Report.CashFlow
	case "valuation", "dcf", "cca":
		leaf = s.Report.Valuation
	default:
		leaf = s.Report
	}
	return toMap(leaf)
}

// Scraped wraps raw scraper output.
type Scraped struct {
	Values map[string]interface{}
}

var _ Source = (*Scraped)(nil)

func (s *Scraped) Data(ctx context.Context, section string) (map[string]interface{}, error) {
	return s.Values, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize section data: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to reshape section data: %w", err)
	}
	return out, nil
}
