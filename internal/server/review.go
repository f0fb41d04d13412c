package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/review"
	"github.com/megalab/halo/internal/store"
)

// handleReview handles POST /api/review. The transcript comes either inline
// in the request body or, when sessionId is set and the body carries no
// conversation, from the session store. A successful review against a stored
// session is persisted alongside the session.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.reviewRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turns := req.Conversation
	if len(turns) == 0 && req.Session != "" {
		stored, err := s.hist.Turns(r.Context(), req.Session)
		if err != nil {
			log.Error("review: loading session failed", slog.Any("error", err))
			s.metrics.reviewRequestsTotal.WithLabelValues(outcomeError).Inc()
			writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		turns = stored
	}

	res, err := review.Run(r.Context(), s.gen, turns, req.Settings, s.cfg.Review)
	switch {
	case err == nil:
		// fall through to the success path below

	case errors.Is(err, review.ErrReviewDisabled), errors.Is(err, review.ErrEmptyConversation):
		s.metrics.reviewRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return

	case errors.Is(err, review.ErrCollaborator):
		// The cause is logged; the client gets a generic message.
		log.Error("review: collaborator call failed", slog.Any("error", err))
		s.metrics.reviewRequestsTotal.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusInternalServerError, "review generation failed")
		return

	default:
		s.metrics.reviewRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Session != "" {
		if err := s.hist.SaveReview(r.Context(), req.Session, res); err != nil {
			// The review succeeded; losing the stored copy is recoverable.
			log.Warn("review: failed to persist result", slog.Any("error", err))
		}
	}

	s.metrics.reviewRequestsTotal.WithLabelValues(outcomeOK).Inc()
	s.metrics.reviewDurationSeconds.Observe(time.Since(start).Seconds())
	if res.Metadata.Truncated {
		s.metrics.reviewTruncatedTotal.Inc()
	}

	writeJSON(w, http.StatusOK, reviewResponse{Success: true, Review: res})
}

// handleReviewLatest handles GET /api/review?session=<id>. It returns the
// most recently stored review for the session, or 404 when the session has
// never been reviewed.
func (s *Server) handleReviewLatest(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	session := r.URL.Query().Get("session")
	if session == "" {
		writeError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}

	res, err := s.hist.LatestReview(r.Context(), session)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, reviewResponse{Success: true, Review: res})

	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "no review stored for session")

	default:
		log.Error("review: loading stored review failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load review")
	}
}
