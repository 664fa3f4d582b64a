package research

import (
	"context"
	"fmt"
	"strings"

	"ma_diligence/pkg/core/llm"
)

const researcherSystemPrompt = `You are a market research analyst preparing due-diligence input for an M&A team.
Using the tool findings below, produce structured research notes covering:
1. Industry overview: size, growth rate, key trends.
2. Market share analysis: major players and approximate shares.
3. SWOT analysis of the sector.
4. Customer segmentation: who buys, in what proportions.
5. Sales distribution: channels and geographic spread.
Cite figures from the tool findings where available; mark clearly estimated figures as estimates.`

const writerSystemPrompt = `You are a senior report writer at an M&A advisory firm.
Synthesize the research notes below into a polished market-analysis section written for an investment committee.
Structure the section with clear headings, keep an analytical register, and do not invent figures absent from the notes.
Respond with the report section only, no preamble.`

// Team coordinates the researcher and writer agents. The supervisor role is
// a fixed dispatch: researcher gathers, writer synthesizes, the writer's
// output is the team's report.
type Team struct {
	researcher *llm.Gateway
	writer     *llm.Gateway
	search     SearchTool
	finance    FinanceTool
}

func NewTeam(researcher, writer *llm.Gateway, search SearchTool, finance FinanceTool) *Team {
	return &Team{researcher: researcher, writer: writer, search: search, finance: finance}
}

// Run produces the market-analysis report for topic. Tool failures degrade
// to a note in the prompt rather than aborting the run; agent failures
// propagate.
func (t *Team) Run(ctx context.Context, topic string) (string, error) {
	fmt.Printf("[research] dispatching researcher for topic: %s\n", topic)

	findings := t.gatherFindings(ctx, topic)
	notes, err := t.researcher.ChatComplete(ctx, researcherSystemPrompt,
		fmt.Sprintf("Topic: %s\n\nTool findings:\n%s", topic, findings), -1, 0)
	if err != nil {
		return "", fmt.Errorf("researcher agent failed: %w", err)
	}

	fmt.Printf("[research] researcher produced %d chars, dispatching writer\n", len(notes))

	report, err := t.writer.ChatComplete(ctx, writerSystemPrompt,
		fmt.Sprintf("Topic: %s\n\nResearch notes:\n%s", topic, notes), -1, 0)
	if err != nil {
		return "", fmt.Errorf("writer agent failed: %w", err)
	}

	if strings.TrimSpace(report) == "" {
		return "", fmt.Errorf("writer agent returned empty report for topic %q", topic)
	}
	return report, nil
}

// gatherFindings runs the tools and concatenates whatever they return.
// Missing or failing tools are reported inline so the researcher knows the
// evidence base is thin.
func (t *Team) gatherFindings(ctx context.Context, topic string) string {
	var b strings.Builder

	queries := []string{
		topic + " market size and growth",
		topic + " major companies market share",
	}
	for _, q := range queries {
		if t.search == nil {
			b.WriteString(fmt.Sprintf("- search %q: tool unavailable\n", q))
			continue
		}
		result, err := t.search.Search(ctx, q)
		if err != nil {
			fmt.Printf("[research] search failed for %q: %v\n", q, err)
			b.WriteString(fmt.Sprintf("- search %q: failed (%v)\n", q, err))
			continue
		}
		b.WriteString(fmt.Sprintf("- search %q: %s\n", q, result))
	}

	if t.finance == nil {
		b.WriteString("- finance data: tool unavailable\n")
	} else if ticker := tickerFor(topic); ticker != "" {
		quote, err := t.finance.StockInfo(ctx, ticker)
		if err != nil {
			fmt.Printf("[research] finance lookup failed for %s: %v\n", ticker, err)
			b.WriteString(fmt.Sprintf("- finance data for %s: failed (%v)\n", ticker, err))
		} else {
			b.WriteString(fmt.Sprintf("- finance data for %s: %s\n", ticker, quote))
		}
	}

	return b.String()
}

// tickerFor picks a sector-representative ticker so the finance tool has
// something concrete to quote. Topics are industry names, not companies, so
// an ETF proxy is the best available anchor.
func tickerFor(topic string) string {
	lower := strings.ToLower(topic)
	switch {
	case strings.Contains(lower, "manufactur"), strings.Contains(lower, "industrial"):
		return "XLI"
	case strings.Contains(lower, "tech"), strings.Contains(lower, "software"):
		return "XLK"
	case strings.Contains(lower, "health"), strings.Contains(lower, "pharma"):
		return "XLV"
	case strings.Contains(lower, "energy"), strings.Contains(lower, "oil"):
		return "XLE"
	case strings.Contains(lower, "financ"), strings.Contains(lower, "bank"):
		return "XLF"
	case strings.Contains(lower, "retail"), strings.Contains(lower, "consumer"):
		return "XLY"
	default:
		return "SPY"
	}
}
