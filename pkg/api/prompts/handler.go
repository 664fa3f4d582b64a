// Package prompts exposes the prompt registry for viewing and editing
// section templates.
package prompts

import (
	"encoding/json"
	"errors"
	"net/http"

	"ma_diligence/pkg/core/prompt"
	"ma_diligence/pkg/core/session"
)

type UpdateRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type DraftRequest struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// Handler holds dependencies for prompt endpoints
type Handler struct {
	Registry *prompt.Registry
	Sessions *session.Manager
}

func NewHandler(registry *prompt.Registry, sessions *session.Manager) *Handler {
	return &Handler{Registry: registry, Sessions: sessions}
}

// HandlePrompts serves GET (one key via ?key=, or all keys) and POST
// (replace the stored template for a key).
func (h *Handler) HandlePrompts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case "OPTIONS":
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handleUpdate(w, r)
	default:
		http.Error(w, "GET or POST required", http.StatusMethodNotAllowed)
	}
}

// HandleDraft serves per-session prompt drafts: edits staged against a
// session before being committed to the registry with POST /api/prompts.
// GET returns the draft for a key, falling back to the effective template
// when no draft exists; POST stores a draft without touching the registry.
func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case "OPTIONS":
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.handleDraftGet(w, r)
	case http.MethodPost:
		h.handleDraftSave(w, r)
	default:
		http.Error(w, "GET or POST required", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDraftGet(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	key := r.URL.Query().Get("key")
	if sessionID == "" || key == "" {
		http.Error(w, "session_id and key are required", http.StatusBadRequest)
		return
	}

	sess, ok := h.Sessions.Get(sessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	if value, ok := sess.PromptDraft(key); ok {
		json.NewEncoder(w).Encode(map[string]interface{}{"key": key, "value": value, "draft": true})
		return
	}

	// No draft yet: the effective template is the edit starting point.
	value, err := h.Registry.Get(r.Context(), key)
	if err != nil {
		var unknown *prompt.UnknownKeyError
		if errors.As(err, &unknown) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"key": key, "value": value, "draft": false})
}

func (h *Handler) handleDraftSave(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Key == "" {
		http.Error(w, "session_id and key are required", http.StatusBadRequest)
		return
	}
	if !prompt.IsKnown(req.Key) {
		http.Error(w, (&prompt.UnknownKeyError{Key: req.Key}).Error(), http.StatusNotFound)
		return
	}

	sess, ok := h.Sessions.Get(req.SessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	sess.SetPromptDraft(req.Key, req.Value)

	json.NewEncoder(w).Encode(map[string]string{"status": "draft_saved", "key": req.Key})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if key := r.URL.Query().Get("key"); key != "" {
		value, err := h.Registry.Get(r.Context(), key)
		if err != nil {
			var unknown *prompt.UnknownKeyError
			if errors.As(err, &unknown) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"key": key, "value": value})
		return
	}

	all := make(map[string]string)
	for _, key := range h.Registry.Keys() {
		value, err := h.Registry.Get(r.Context(), key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		all[key] = value
	}
	json.NewEncoder(w).Encode(all)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	if err := h.Registry.Set(r.Context(), req.Key, req.Value); err != nil {
		var unknown *prompt.UnknownKeyError
		if errors.As(err, &unknown) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "updated", "key": req.Key})
}
