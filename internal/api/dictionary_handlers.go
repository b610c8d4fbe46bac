package api

import (
	"net/http"
	"strconv"

	"github.com/dilan/peyvin/internal/models"
)

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.WordFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	words, total, err := s.DictionaryService.Search(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"words": words,
		"total": total,
	})
}
