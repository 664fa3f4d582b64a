// Package reports exposes report generation over HTTP: full runs, single
// sections, the beyond-FR meta-section and PDF upload for extraction.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ma_diligence/pkg/core/agent"
	"ma_diligence/pkg/core/datasource"
	"ma_diligence/pkg/core/extract"
	"ma_diligence/pkg/core/generator"
	"ma_diligence/pkg/core/orchestrator"
	"ma_diligence/pkg/core/pdf"
	"ma_diligence/pkg/core/research"
	"ma_diligence/pkg/core/session"
	"ma_diligence/pkg/core/utils"
)

type GenerateRequest struct {
	SessionID    string `json:"session_id"`
	Section      string `json:"section"`
	CompanyName  string `json:"company_name"`
	Industry     string `json:"industry"`
	WebsiteURL   string `json:"website_url"`
	Phase        string `json:"phase"`
	Task         string `json:"task"`
	CompanyType  string `json:"company_type"`
	IndustryType string `json:"industry_type"`
}

type GenerateResponse struct {
	SessionID string               `json:"session_id"`
	Fragments []generator.Fragment `json:"fragments"`
}

// Handler holds dependencies for the report endpoints. Deps carries the
// static pieces (registry, scraper); gateways, the research team and the
// extractor are resolved through the agent manager on every request, so a
// provider switch takes effect immediately. The orchestrator is rebuilt
// per request so a session with an extracted report feeds real numbers
// into the statement sections.
type Handler struct {
	Deps     orchestrator.Deps
	Agents   *agent.Manager
	Sessions *session.Manager
	PDF      pdf.TextExtractor
	Search   research.SearchTool
	Finance  research.FinanceTool
}

// HandleFull generates the complete report in section order.
func (h *Handler) HandleFull(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := h.sessionFor(req.SessionID)
	orch := h.orchestratorFor(sess)

	fragments := orch.GenerateFull(r.Context(), toGeneratorRequest(req))
	sess.SetFragments(fragments)

	json.NewEncoder(w).Encode(GenerateResponse{SessionID: sess.ID, Fragments: renderFragments(fragments)})
}

// HandleSection generates one named section, or the beyond-FR meta-section
// when section is "beyond_fr".
func (h *Handler) HandleSection(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Section == "" {
		http.Error(w, "section is required", http.StatusBadRequest)
		return
	}

	sess := h.sessionFor(req.SessionID)
	orch := h.orchestratorFor(sess)

	var frag generator.Fragment
	if req.Section == generator.SectionBeyondFR {
		frag = orch.GenerateBeyondFR(r.Context(), toGeneratorRequest(req))
	} else {
		frag = orch.GenerateSection(r.Context(), req.Section, toGeneratorRequest(req))
	}

	json.NewEncoder(w).Encode(GenerateResponse{SessionID: sess.ID, Fragments: renderFragments([]generator.Fragment{frag})})
}

// HandleUpload accepts a statement PDF, runs extraction and stores the
// result on the session. Later statement sections use the extracted data.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, pdf.MaxUploadBytes)
	if err := r.ParseMultipartForm(pdf.MaxUploadBytes); err != nil {
		http.Error(w, "PDF exceeds size limit or malformed upload", http.StatusRequestEntityTooLarge)
		return
	}

	file, _, err := r.FormFile("pdf")
	if err != nil {
		http.Error(w, "missing pdf form file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	sess := h.sessionFor(r.FormValue("session_id"))
	sess.SetPDF(pdfBytes)

	extractor := extract.NewExtractor(h.Agents.GetGateway("extractor"), h.PDF)
	report, err := extractor.ExtractReport(r.Context(), pdfBytes)
	if err != nil && report == nil {
		http.Error(w, fmt.Sprintf("extraction failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	var failed []string
	if err != nil {
		// Partial extraction: keep what we got, tell the client which
		// sections fell back to defaults.
		fmt.Printf("[api] partial extraction for session %s: %v\n", sess.ID, err)
		failed = failedSections(err)
	}
	sess.SetReport(report)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"session_id":      sess.ID,
		"report":          report,
		"failed_sections": failed,
	})
}

func (h *Handler) sessionFor(id string) *session.Session {
	if id != "" {
		if sess, ok := h.Sessions.Get(id); ok {
			return sess
		}
	}
	return h.Sessions.Create()
}

// orchestratorFor builds the generator set against the currently active
// provider, swapping in extracted data when the session has a processed
// PDF. Consultant sections stay on the hub backend when one is registered.
func (h *Handler) orchestratorFor(sess *session.Session) *orchestrator.Orchestrator {
	deps := h.Deps
	deps.Chat = h.Agents.GetGateway("sections")
	deps.Text = deps.Chat
	if hub, ok := h.Agents.GetGatewayByName("hub"); ok {
		deps.Text = hub
	}
	deps.Team = research.NewTeam(
		h.Agents.GetGateway("researcher"),
		h.Agents.GetGateway("writer"),
		h.Search,
		h.Finance,
	)

	if report := sess.Report(); report != nil {
		src := &datasource.FromReport{Report: report}
		deps.Financials = src
		deps.Summary = src
	}
	return orchestrator.Build(deps)
}

func toGeneratorRequest(req GenerateRequest) generator.Request {
	return generator.Request{
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		WebsiteURL:   req.WebsiteURL,
		Phase:        req.Phase,
		Task:         req.Task,
		CompanyType:  req.CompanyType,
		IndustryType: req.IndustryType,
	}
}

// renderFragments converts markdown bodies to HTML at the delivery
// boundary so every fragment reaches the client in one format. Bodies
// already in HTML pass through; a render failure leaves the body as-is.
func renderFragments(fragments []generator.Fragment) []generator.Fragment {
	out := make([]generator.Fragment, len(fragments))
	for i, frag := range fragments {
		if utils.ValidateMarkdown(frag.Body) {
			if html, err := utils.RenderHTML(frag.Body); err == nil {
				frag.Body = html
			}
		}
		out[i] = frag
	}
	return out
}

// failedSections pulls the section names out of an extraction error tree.
func failedSections(err error) []string {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var sections []string
		for _, sub := range multi.Unwrap() {
			sections = append(sections, failedSections(sub)...)
		}
		return sections
	}
	var se *extract.SectionError
	if errors.As(err, &se) {
		return []string{se.Section}
	}
	return nil
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
