package research

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"ma_diligence/pkg/core/llm"
)

type roleProvider struct {
	name     string
	response string
	calls    int
	lastUser string
}

func (p *roleProvider) Generate(ctx context.Context, system, user string, opts llm.Options) (string, error) {
	p.calls++
	p.lastUser = user
	return p.response, nil
}

func (p *roleProvider) Name() string { return p.name }

type stubSearch struct {
	calls   int
	queries []string
}

func (s *stubSearch) Search(ctx context.Context, query string) (string, error) {
	s.calls++
	s.queries = append(s.queries, query)
	return `{"results":["global manufacturing output grew 3% in 2025"]}`, nil
}

type stubFinance struct {
	calls int
}

func (s *stubFinance) StockInfo(ctx context.Context, ticker string) (string, error) {
	s.calls++
	return `{"symbol":"` + ticker + `","price":128.4}`, nil
}

func roleGateway(p llm.Provider) *llm.Gateway {
	g := llm.NewGateway(p)
	g.SetLimiter(rate.NewLimiter(rate.Inf, 1))
	g.SetTimeout(time.Second)
	g.SetMaxRetries(0)
	return g
}

func TestTeamRunInvokesBothAgents(t *testing.T) {
	researcher := &roleProvider{name: "researcher", response: "notes: market grows 3% a year"}
	writer := &roleProvider{name: "writer", response: "Market Analysis: steady growth."}
	search := &stubSearch{}
	finance := &stubFinance{}

	team := NewTeam(roleGateway(researcher), roleGateway(writer), search, finance)

	report, err := team.Run(context.Background(), "manufacturing industry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(report) == "" {
		t.Fatal("team run must return a non-empty report")
	}
	if researcher.calls == 0 {
		t.Error("researcher agent was never invoked")
	}
	if writer.calls == 0 {
		t.Error("writer agent was never invoked")
	}
	if search.calls == 0 {
		t.Error("search tool was never invoked")
	}
	if finance.calls == 0 {
		t.Error("finance tool was never invoked")
	}
}

func TestTeamWriterSeesResearcherNotes(t *testing.T) {
	researcher := &roleProvider{name: "researcher", response: "NOTES-MARKER-5517"}
	writer := &roleProvider{name: "writer", response: "final report"}

	team := NewTeam(roleGateway(researcher), roleGateway(writer), &stubSearch{}, &stubFinance{})

	if _, err := team.Run(context.Background(), "manufacturing industry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(writer.lastUser, "NOTES-MARKER-5517") {
		t.Error("writer prompt does not carry the researcher's notes")
	}
}

func TestTeamSurvivesMissingTools(t *testing.T) {
	researcher := &roleProvider{name: "researcher", response: "notes"}
	writer := &roleProvider{name: "writer", response: "report"}

	team := NewTeam(roleGateway(researcher), roleGateway(writer), nil, nil)

	report, err := team.Run(context.Background(), "retail industry")
	if err != nil {
		t.Fatalf("tool absence must not fail the run: %v", err)
	}
	if report != "report" {
		t.Errorf("report = %q", report)
	}
	if !strings.Contains(researcher.lastUser, "tool unavailable") {
		t.Error("researcher prompt should note unavailable tools")
	}
}
