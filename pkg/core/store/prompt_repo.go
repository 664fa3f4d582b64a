package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ma_diligence/pkg/core/prompt"
)

// promptRowID identifies the single seeded row of section_prompts.
const promptRowID = 1

// promptColumns maps prompt keys to their column names. Columns are fixed
// identifiers drawn from this map, never from user input.
var promptColumns = map[string]string{
	prompt.KeyFLA:              "fla",
	prompt.KeyExecutiveSummary: "executive_summary",
	prompt.KeyBalanceSheet:     "balance_sheet",
	prompt.KeyCashFlow:         "cash_flow",
	prompt.KeyBeyondFR:         "beyondfr",
	prompt.KeyValuation:        "valuation_analyzer",
	prompt.KeyAboutCompany:     "about_company_webscraping",
	prompt.KeyHCASection1:      "hca_section_1",
	prompt.KeyHCASection2:      "hca_section_2",
	prompt.KeyHCASection3:      "hca_section_3",
	prompt.KeyHCASection4:      "hca_section_4",
}

// PromptRepo persists prompt overrides in a single-row table with one
// column per key. NULL means "use the compiled-in default". Concurrent
// writes are serialized by the database; last write wins.
type PromptRepo struct {
	pool *pgxpool.Pool
}

var _ prompt.Store = (*PromptRepo)(nil)

func NewPromptRepo(pool *pgxpool.Pool) *PromptRepo {
	return &PromptRepo{pool: pool}
}

// EnsureSchema creates the section_prompts table and its seed row when
// they do not exist. Safe to call on every startup.
func (r *PromptRepo) EnsureSchema(ctx context.Context) error {
	create := `CREATE TABLE IF NOT EXISTS section_prompts (
		id INTEGER PRIMARY KEY,
		fla TEXT,
		executive_summary TEXT,
		balance_sheet TEXT,
		cash_flow TEXT,
		beyondfr TEXT,
		valuation_analyzer TEXT,
		about_company_webscraping TEXT,
		hca_section_1 TEXT,
		hca_section_2 TEXT,
		hca_section_3 TEXT,
		hca_section_4 TEXT
	)`
	if _, err := r.pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create section_prompts: %w", err)
	}

	seed := `INSERT INTO section_prompts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, seed, promptRowID); err != nil {
		return fmt.Errorf("failed to seed section_prompts: %w", err)
	}
	return nil
}

func (r *PromptRepo) Get(ctx context.Context, key string) (string, bool, error) {
	column, ok := promptColumns[key]
	if !ok {
		return "", false, fmt.Errorf("no column for prompt key %q", key)
	}

	query := fmt.Sprintf(`SELECT %s FROM section_prompts WHERE id = $1`, column)
	var value *string
	if err := r.pool.QueryRow(ctx, query, promptRowID).Scan(&value); err != nil {
		return "", false, fmt.Errorf("failed to read prompt %s: %w", key, err)
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (r *PromptRepo) Set(ctx context.Context, key string, value string) error {
	column, ok := promptColumns[key]
	if !ok {
		return fmt.Errorf("no column for prompt key %q", key)
	}

	// Upsert keeps Set atomic even if the seed row was never created.
	query := fmt.Sprintf(
		`INSERT INTO section_prompts (id, %s) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET %s = EXCLUDED.%s`,
		column, column, column)
	if _, err := r.pool.Exec(ctx, query, promptRowID, value); err != nil {
		return fmt.Errorf("failed to write prompt %s: %w", key, err)
	}
	return nil
}
