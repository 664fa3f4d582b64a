package datasource

import (
	"context"
	"testing"

	"ma_diligence/pkg/models"
)

func sampleReport() *models.CompanyReport {
	return &models.CompanyReport{
		CompanyInfo: models.CompanyInfo{Name: "Acme", Sectors: []string{"widgets"}},
		FinancialMetrics: models.FinancialMetrics{YearlyData: []models.FinancialMetricsYear{
			{Year: "2024", Revenue: 1200},
		}},
		BalanceSheet: models.BalanceSheet{YearlyData: []models.BalanceSheetYear{
			{Year: "2024", TotalAssets: 900},
		}},
		Valuation: models.Valuation{EnterpriseValue: 2100},
	}
}

func TestFromReportSectionMapping(t *testing.T) {
	src := &FromReport{Report: sampleReport()}
	ctx := context.Background()

	pnl, err := src.Data(ctx, "pnl")
	if err != nil {
		t.Fatalf("pnl: %v", err)
	}
	if _, ok := pnl["yearly_data"]; !ok {
		t.Error("pnl data missing yearly_data")
	}

	val, err := src.Data(ctx, "dcf")
	if err != nil {
		t.Fatalf("dcf: %v", err)
	}
	if val["enterprise_value"] != 2100.0 {
		t.Errorf("enterprise_value = %v", val["enterprise_value"])
	}

	whole, err := src.Data(ctx, "executive_summary")
	if err != nil {
		t.Fatalf("executive_summary: %v", err)
	}
	if _, ok := whole["company_info"]; !ok {
		t.Error("default mapping should expose the whole report")
	}
}

func TestFromReportNilReport(t *testing.T) {
	src := &FromReport{}
	if _, err := src.Data(context.Background(), "pnl"); err == nil {
		t.Error("nil report should fail")
	}
}

func TestStaticReturnsSameValues(t *testing.T) {
	s := &Static{Values: map[string]interface{}{"revenue": 10.0}}
	for _, section := range []string{"pnl", "anything"} {
		data, err := s.Data(context.Background(), section)
		if err != nil {
			t.Fatal(err)
		}
		if data["revenue"] != 10.0 {
			t.Errorf("section %s: %v", section, data)
		}
	}
}
