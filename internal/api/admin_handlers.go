package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/models"
)

func wordIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid word id")
	}
	return id, nil
}

func (s *Server) handleAdminListWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.WordFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	words, total, err := s.ContentService.ListWords(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"words": words,
		"total": total,
	})
}

func (s *Server) handleAdminCreateWord(w http.ResponseWriter, r *http.Request) {
	var req models.Word
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	word, err := s.ContentService.CreateWord(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, word)
}

func (s *Server) handleAdminUpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := wordIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req models.Word
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	req.ID = id

	word, err := s.ContentService.UpdateWord(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, word)
}

func (s *Server) handleAdminDeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := wordIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ContentService.DeleteWord(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
