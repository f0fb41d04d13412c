package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/prompts"
)

// handlePromptsList handles GET /api/prompts?session=<id>. It returns the
// effective prompt for every capture method: the session's override where one
// exists, the default otherwise.
func (s *Server) handlePromptsList(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	session := r.URL.Query().Get("session")
	if session == "" {
		writeError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}

	overrides, err := s.hist.PromptOverrides(r.Context(), session)
	if err != nil {
		log.Error("prompts: loading overrides failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load prompt overrides")
		return
	}

	resp := promptsResponse{Session: session}
	for _, key := range prompts.Methods() {
		effective, _ := prompts.Resolve(key, overrides)
		resp.Methods = append(resp.Methods, promptInfo{
			Key:        key,
			Name:       prompts.MethodName(key),
			Overridden: strings.TrimSpace(overrides[key]) != "",
			Prompt:     effective,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handlePromptPut handles PUT /api/prompts/{key}?session=<id>. It replaces
// the session's prompt for one capture method.
func (s *Server) handlePromptPut(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	session := r.URL.Query().Get("session")
	if session == "" {
		writeError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}
	key := r.PathValue("key")
	if _, err := prompts.Default(key); err != nil {
		writeError(w, http.StatusNotFound, "unknown method key")
		return
	}

	var req promptOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt must not be empty")
		return
	}

	if err := s.hist.SetPromptOverride(r.Context(), session, key, req.Prompt); err != nil {
		log.Error("prompts: saving override failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save prompt override")
		return
	}

	writeJSON(w, http.StatusOK, promptInfo{
		Key:        key,
		Name:       prompts.MethodName(key),
		Overridden: true,
		Prompt:     req.Prompt,
	})
}

// handlePromptDelete handles DELETE /api/prompts/{key}?session=<id>. It
// restores the default prompt for one capture method. Deleting an override
// that does not exist succeeds.
func (s *Server) handlePromptDelete(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	session := r.URL.Query().Get("session")
	if session == "" {
		writeError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}
	key := r.PathValue("key")
	if _, err := prompts.Default(key); err != nil {
		writeError(w, http.StatusNotFound, "unknown method key")
		return
	}

	if err := s.hist.DeletePromptOverride(r.Context(), session, key); err != nil {
		log.Error("prompts: deleting override failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to delete prompt override")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
