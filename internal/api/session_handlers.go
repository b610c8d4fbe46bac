package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/logger"
)

func sessionIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError("invalid session id")
	}
	return id, nil
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("starting quiz session")

	var req struct {
		LevelID *int64 `json:"level_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.LevelID == nil {
		handleError(w, r, errors.NewValidationError("level_id", "is required"))
		return
	}

	snap, err := s.QuizService.StartSession(r.Context(), userFromContext(r.Context()), *req.LevelID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	snap, err := s.QuizService.GetSession(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.QuizService.SubmitAnswer(r.Context(), userFromContext(r.Context()), id, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAdvanceSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	snap, err := s.QuizService.Advance(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.QuizService.Discard(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
