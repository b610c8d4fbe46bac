package api

import (
	"database/sql"

	"github.com/dilan/peyvin/internal/services"
)

// Server bundles the HTTP handlers' dependencies.
type Server struct {
	CatalogService    services.CatalogService
	QuizService       services.QuizService
	ProgressService   services.ProgressService
	DictionaryService services.DictionaryService
	ContentService    services.ContentService

	// DB is used only by the readiness probe.
	DB *sql.DB
	// AdminToken guards the content management routes; empty disables them.
	AdminToken string
}
