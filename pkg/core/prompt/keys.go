// Package prompt provides the editable prompt registry: a fixed set of
// section prompt keys, compiled-in defaults, per-key overrides persisted in
// the store, and strict template rendering.
package prompt

import "fmt"

// Known prompt keys. Each key maps to one column of the section_prompts row.
const (
	KeyFLA              = "fla"
	KeyExecutiveSummary = "executive_summary"
	KeyBalanceSheet     = "balance_sheet"
	KeyCashFlow         = "cash_flow"
	KeyBeyondFR         = "beyondFR"
	KeyValuation        = "valuation_analyzer"
	KeyAboutCompany     = "about_company_webscraping"
	KeyHCASection1      = "HCA_Section_1"
	KeyHCASection2      = "HCA_Section_2"
	KeyHCASection3      = "HCA_Section_3"
	KeyHCASection4      = "HCA_Section_4"
)

var knownKeys = []string{
	KeyFLA,
	KeyExecutiveSummary,
	KeyBalanceSheet,
	KeyCashFlow,
	KeyBeyondFR,
	KeyValuation,
	KeyAboutCompany,
	KeyHCASection1,
	KeyHCASection2,
	KeyHCASection3,
	KeyHCASection4,
}

// IsKnown reports whether key belongs to the recognized set.
func IsKnown(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// UnknownKeyError indicates a programmer error: a prompt key outside the
// recognized set.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown prompt key %q", e.Key)
}
