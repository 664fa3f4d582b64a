// Package orchestrator runs the full report: every section generator in a
// fixed order, failures recorded in place, output order preserved.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ma_diligence/pkg/core/generator"
)

// SectionOrder is the fixed emission order of the full report.
var SectionOrder = []string{
	generator.SectionExecutiveSummary,
	generator.SectionAboutCompany,
	generator.SectionMarketAnalysis,
	generator.SectionPnL,
	generator.SectionBalanceSheet,
	generator.SectionCashFlow,
	generator.SectionValuation,
	generator.SectionDCF,
	generator.SectionCCA,
	generator.SectionHumanCapital,
	generator.SectionOperational,
	generator.SectionLegal,
	generator.SectionRisk,
}

// maxInFlight bounds concurrent section generation. Sections are
// independent; the limit keeps total LLM pressure predictable.
const maxInFlight = 4

// Orchestrator composes registered section generators into full-report and
// single-section runs.
type Orchestrator struct {
	generators map[string]generator.SectionGenerator
	beyondFR   generator.SectionGenerator
}

func New() *Orchestrator {
	return &Orchestrator{generators: make(map[string]generator.SectionGenerator)}
}

// Register adds or replaces the generator for its section.
func (o *Orchestrator) Register(g generator.SectionGenerator) {
	o.generators[g.Section()] = g
}

// RegisterBeyondFR sets the meta-section generator. It is not part of the
// full-report order; callers request it separately.
func (o *Orchestrator) RegisterBeyondFR(g generator.SectionGenerator) {
	o.beyondFR = g
}

// GenerateFull runs every section in SectionOrder and returns exactly one
// fragment per section, in order. A section failure never halts the run;
// the failure is recorded as that section's fragment body.
func (o *Orchestrator) GenerateFull(ctx context.Context, req generator.Request) []generator.Fragment {
	fmt.Printf("[orchestrator] full report for %s (%d sections)\n", req.CompanyName, len(SectionOrder))

	fragments := make([]generator.Fragment, len(SectionOrder))
	sem := make(chan struct{}, maxInFlight)
	var wg sync.WaitGroup

	for i, section := range SectionOrder {
		wg.Add(1)
		go func(i int, section string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fragments[i] = o.generateOne(ctx, section, req)
		}(i, section)
	}
	wg.Wait()

	return fragments
}

// GenerateSection runs a single named section. Unknown sections and
// generation failures both come back as error fragments, same as in a full
// run.
func (o *Orchestrator) GenerateSection(ctx context.Context, section string, req generator.Request) generator.Fragment {
	return o.generateOne(ctx, section, req)
}

// GenerateBeyondFR runs the meta-section. Its generator regenerates the
// three statement sections itself, so it needs no prior full run.
func (o *Orchestrator) GenerateBeyondFR(ctx context.Context, req generator.Request) generator.Fragment {
	if o.beyondFR == nil {
		return errorFragment(generator.SectionBeyondFR, fmt.Errorf("no generator registered"))
	}
	frag, err := o.beyondFR.Generate(ctx, req)
	if err != nil {
		fmt.Printf("[orchestrator] beyond-FR failed: %v\n", err)
		return errorFragment(generator.SectionBeyondFR, err)
	}
	return frag
}

func (o *Orchestrator) generateOne(ctx context.Context, section string, req generator.Request) generator.Fragment {
	g, ok := o.generators[section]
	if !ok {
		return errorFragment(section, fmt.Errorf("no generator registered"))
	}

	frag, err := g.Generate(ctx, req)
	if err != nil {
		fmt.Printf("[orchestrator] section %s failed: %v\n", section, err)
		return errorFragment(section, err)
	}
	fmt.Printf("[orchestrator] section %s done (%d chars)\n", section, len(frag.Body))
	return frag
}

func errorFragment(section string, err error) generator.Fragment {
	return generator.Fragment{
		Section:     section,
		Body:        fmt.Sprintf("Failed to generate %s: %v", section, err),
		GeneratedAt: time.Now(),
	}
}
