package api

import (
	"net/http"

	"github.com/dilan/peyvin/internal/logger"
)

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing levels")

	levels, err := s.CatalogService.Levels(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"levels": levels})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.CatalogService.Categories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": categories})
}
