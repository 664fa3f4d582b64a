package datasource

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Synthetic generates three years of plausible placeholder numbers within
// declared ranges. The legacy P&L, balance-sheet and cash-flow sections run
// on this mode until real data is wired in; the numbers exist to give the
// LLM something concrete to format, not to be correct.
type Synthetic struct {
	// Seed fixes the generator for tests; 0 means time-seeded per call.
	Seed int64
}

var _ Source = (*Synthetic)(nil)

// valueRange declares the plausible band for one line item, in dollars.
type valueRange struct {
	lo, hi float64
}

var syntheticRanges = map[string]map[string]valueRange{
	"pnl": {
		"revenue":            {1_000_000, 5_000_000},
		"cogs":               {400_000, 2_000_000},
		"operating_expenses": {200_000, 1_200_000},
		"ebitda":             {100_000, 900_000},
	},
	"balance_sheet": {
		"current_assets":      {500_000, 1_000_000},
		"non_current_assets":  {800_000, 3_000_000},
		"current_liabilities": {300_000, 800_000},
		"long_term_debt":      {200_000, 1_500_000},
		"equity":              {500_000, 2_000_000},
		"cash":                {100_000, 600_000},
	},
	"cash_flow": {
		"net_income":               {80_000, 600_000},
		"non_cash_adjustments":     {20_000, 200_000},
		"working_capital_changes":  {-150_000, 150_000},
		"cash_from_operations":     {100_000, 700_000},
		"cash_from_investing":      {-500_000, -50_000},
		"cash_from_financing":      {-300_000, 300_000},
	},
}

func (s *Synthetic) Data(ctx context.Context, section string) (map[string]interface{}, error) {
	ranges, ok := syntheticRanges[section]
	if !ok {
		switch section {
		case "valuation", "dcf", "cca":
			// Valuation sections analyze all three statements at once.
			ranges = map[string]valueRange{}
			for _, sectionRanges := range syntheticRanges {
				for item, r := range sectionRanges {
					ranges[item] = r
				}
			}
		default:
			return nil, fmt.Errorf("no synthetic ranges declared for section %q", section)
		}
	}

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	currentYear := time.Now().Year()
	years := make([]string, 0, 3)
	yearly := make([]map[string]interface{}, 0, 3)
	for i := 0; i < 3; i++ {
		year := fmt.Sprintf("%d", currentYear-i)
		years = append(years, year)

		row := map[string]interface{}{"year": year}
		for item, r := range ranges {
			row[item] = float64(int64(r.lo + rng.Float64()*(r.hi-r.lo)))
		}
		yearly = append(yearly, row)
	}

	return map[string]interface{}{
		"years":       years,
		"yearly_data": yearly,
	}, nil
}
