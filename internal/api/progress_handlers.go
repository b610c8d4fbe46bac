package api

import (
	"net/http"

	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
)

// handleSubmitSession is the one-shot session reconcile for clients that run
// the quiz client-side. Clients using the server-driven session flow must not
// call this as well; answers would be double-counted.
func (s *Server) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("session submission")

	var req models.SessionResult
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.ProgressService.SubmitSession(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("step submission")

	var req models.StepResult
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.ProgressService.SubmitStep(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"xp_earned": result.XPEarned,
		"streak":    result.Streak,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	records, err := s.ProgressService.Progress(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"progress": records})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.ProgressService.Reset(r.Context(), userFromContext(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ProgressService.Stats(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
