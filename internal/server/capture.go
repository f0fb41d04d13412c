package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/megalab/halo/internal/capture"
	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/prompts"
)

// handleCapture handles POST /api/capture: one capture exchange for a session.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.captureRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Session == "" {
		s.metrics.captureRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	ex, err := s.agent.Respond(r.Context(), req.Session, req.Method, req.Message, req.Profile, req.Emotions)
	switch {
	case err == nil:
		// fall through to the success path below

	case errors.Is(err, capture.ErrEmptyMessage):
		s.metrics.captureRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return

	case errors.Is(err, prompts.ErrUnknownMethod):
		// An unknown method key is an integration bug, not a user mistake.
		log.Error("capture: unknown method key", slog.String("method", req.Method))
		s.metrics.captureRequestsTotal.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusInternalServerError, "unknown capture method")
		return

	case errors.Is(err, capture.ErrCollaborator):
		log.Error("capture: collaborator call failed", slog.Any("error", err))
		s.metrics.captureRequestsTotal.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusInternalServerError, "capture generation failed")
		return

	default:
		log.Error("capture: exchange failed", slog.Any("error", err))
		s.metrics.captureRequestsTotal.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusInternalServerError, "capture failed")
		return
	}

	s.metrics.captureRequestsTotal.WithLabelValues(outcomeOK).Inc()
	s.metrics.captureDurationSeconds.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, captureResponse{Success: true, Exchange: ex})
}
