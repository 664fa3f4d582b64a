// Package session keeps per-user interactive state in memory: the last
// generated fragments, prompt drafts under edit, and the uploaded PDF.
// Nothing here survives a restart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ma_diligence/pkg/core/generator"
	"ma_diligence/pkg/models"
)

// Session is one user's working state.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	fragments    []generator.Fragment
	promptDrafts map[string]string
	pdfBytes     []byte
	report       *models.CompanyReport
}

// SetFragments replaces the session's last run output.
func (s *Session) SetFragments(fragments []generator.Fragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = fragments
}

// Fragments returns a copy of the last run output.
func (s *Session) Fragments() []generator.Fragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]generator.Fragment, len(s.fragments))
	copy(out, s.fragments)
	return out
}

// SetPromptDraft stores an in-progress prompt edit that has not been saved
// to the registry yet.
func (s *Session) SetPromptDraft(key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promptDrafts == nil {
		s.promptDrafts = make(map[string]string)
	}
	s.promptDrafts[key] = text
}

// PromptDraft returns the in-progress edit for key, if any.
func (s *Session) PromptDraft(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.promptDrafts[key]
	return text, ok
}

// SetPDF stores the uploaded statement PDF for later extraction runs.
func (s *Session) SetPDF(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfBytes = b
}

// PDF returns the uploaded PDF bytes, nil if none uploaded.
func (s *Session) PDF() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pdfBytes
}

// SetReport stores the extraction result so later section runs can use
// real numbers instead of synthetic ones.
func (s *Session) SetReport(r *models.CompanyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Report returns the extracted report, nil if no PDF has been processed.
func (s *Session) Report() *models.CompanyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Manager tracks live sessions by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new session with a fresh ID.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session; ok is false for unknown or ended sessions.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// End discards a session and all its state.
func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
