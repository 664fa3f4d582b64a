package datasource

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestSyntheticThreeYearsNewestFirst(t *testing.T) {
	s := &Synthetic{Seed: 42}

	data, err := s.Data(context.Background(), "pnl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	years, ok := data["years"].([]string)
	if !ok || len(years) != 3 {
		t.Fatalf("years = %v", data["years"])
	}
	currentYear := time.Now().Year()
	for i, y := range years {
		want := fmt.Sprintf("%d", currentYear-i)
		if y != want {
			t.Errorf("years[%d] = %s, want %s", i, y, want)
		}
	}

	yearly, ok := data["yearly_data"].([]map[string]interface{})
	if !ok || len(yearly) != 3 {
		t.Fatalf("yearly_data = %v", data["yearly_data"])
	}
}

func TestSyntheticValuesWithinRanges(t *testing.T) {
	s := &Synthetic{Seed: 7}

	for section, ranges := range syntheticRanges {
		data, err := s.Data(context.Background(), section)
		if err != nil {
			t.Fatalf("%s: %v", section, err)
		}
		yearly := data["yearly_data"].([]map[string]interface{})
		for _, row := range yearly {
			for item, r := range ranges {
				v, ok := row[item].(float64)
				if !ok {
					t.Fatalf("%s.%s missing or not numeric: %v", section, item, row[item])
				}
				if v < r.lo || v > r.hi {
					t.Errorf("%s.%s = %v outside [%v, %v]", section, item, v, r.lo, r.hi)
				}
			}
		}
	}
}

func TestSyntheticDeterministicWithSeed(t *testing.T) {
	a, err := (&Synthetic{Seed: 99}).Data(context.Background(), "balance_sheet")
	if err != nil {
		t.Fatal(err)
	}
	b, err := (&Synthetic{Seed: 99}).Data(context.Background(), "balance_sheet")
	if err != nil {
		t.Fatal(err)
	}

	rowsA := a["yearly_data"].([]map[string]interface{})
	rowsB := b["yearly_data"].([]map[string]interface{})
	for i := range rowsA {
		for k, v := range rowsA[i] {
			if rowsB[i][k] != v {
				t.Errorf("row %d key %s: %v vs %v", i, k, v, rowsB[i][k])
			}
		}
	}
}

func TestSyntheticValuationSections(t *testing.T) {
	s := &Synthetic{Seed: 1}

	for _, section := range []string{"valuation", "dcf", "cca"} {
		data, err := s.Data(context.Background(), section)
		if err != nil {
			t.Fatalf("%s: %v", section, err)
		}
		yearly := data["yearly_data"].([]map[string]interface{})
		// Valuation sections see the merged statement line items.
		if _, ok := yearly[0]["revenue"]; !ok {
			t.Errorf("%s missing P&L items", section)
		}
		if _, ok := yearly[0]["equity"]; !ok {
			t.Errorf("%s missing balance-sheet items", section)
		}
	}
}

func TestSyntheticUnknownSection(t *testing.T) {
	if _, err := (&Synthetic{Seed: 1}).Data(context.Background(), "nonsense"); err == nil {
		t.Error("unknown section should fail")
	}
}
