package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.userMiddleware)

		r.Get("/levels", s.handleLevels)
		r.Get("/categories", s.handleCategories)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/answer", s.handleSubmitAnswer)
		r.Post("/sessions/{id}/advance", s.handleAdvanceSession)
		r.Delete("/sessions/{id}", s.handleDiscardSession)

		r.Post("/progress/session", s.handleSubmitSession)
		r.Post("/progress/step", s.handleSubmitStep)
		r.Get("/progress", s.handleProgress)
		r.Delete("/progress", s.handleResetProgress)
		r.Get("/stats", s.handleStats)

		r.Get("/dictionary", s.handleDictionary)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminMiddleware)
			r.Get("/words", s.handleAdminListWords)
			r.Post("/words", s.handleAdminCreateWord)
			r.Put("/words/{id}", s.handleAdminUpdateWord)
			r.Delete("/words/{id}", s.handleAdminDeleteWord)
		})
	})

	return r
}
