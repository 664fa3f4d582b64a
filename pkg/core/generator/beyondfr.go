package generator

import (
	"context"

	"ma_diligence/pkg/core/llm"
	"ma_diligence/pkg/core/prompt"
	"ma_diligence/pkg/core/utils"
)

// BeyondFR produces the "Beyond the Financial Reports" meta-section. It
// regenerates the three statement sections it depends on and embeds their
// bodies verbatim in its own prompt, so the synthesis always matches what
// the statement generators would say right now.
type BeyondFR struct {
	Gateway      *llm.Gateway
	Registry     *prompt.Registry
	PnL          SectionGenerator
	BalanceSheet SectionGenerator
	CashFlow     SectionGenerator
}

var _ SectionGenerator = (*BeyondFR)(nil)

func (g *BeyondFR) Section() string { return SectionBeyondFR }

func (g *BeyondFR) Generate(ctx context.Context, req Request) (Fragment, error) {
	pnl, err := g.PnL.Generate(ctx, req)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	bs, err := g.BalanceSheet.Generate(ctx, req)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}
	cf, err := g.CashFlow.Generate(ctx, req)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	tmpl, err := g.Registry.Get(ctx, prompt.KeyBeyondFR)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	user, err := prompt.Render(prompt.KeyBeyondFR, tmpl, map[string]interface{}{
		"CompanyName":  req.CompanyName,
		"PnL":          pnl.Body,
		"BalanceSheet": bs.Body,
		"CashFlow":     cf.Body,
	})
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	text, err := g.Gateway.ChatComplete(ctx, "You are an M&A analyst.", user, -1, 0)
	if err != nil {
		return Fragment{}, &GenerationError{Section: g.Section(), Err: err}
	}

	return newFragment(g.Section(), utils.CleanMarkdown(text)), nil
}
