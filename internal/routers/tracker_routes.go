package routers

import (
	"leetracker/internal/handlers"
	"leetracker/internal/middleware"
	"leetracker/internal/models"

	"github.com/go-chi/chi/v5"
)

// Handlers bundles everything mounted under /api/v1.
type Handlers struct {
	Questions *handlers.QuestionHandler
	Companies *handlers.CompanyHandler
	Progress  *handlers.ProgressHandler
	Admin     *handlers.AdminHandler
}

// TrackerRoutes mounts the API. Mutations that reshape the data set sit
// behind the admin token; toggling does not.
func TrackerRoutes(r chi.Router, h Handlers, jwtSecret string) {
	requireAdmin := middleware.RequireAdmin(jwtSecret)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.Questions.GetQuestionsHandler)
			r.Get("/export", h.Questions.ExportHandler)
			r.Get("/{id}", h.Questions.GetQuestionByIDHandler)
			r.With(requireAdmin).Post("/upload", h.Questions.UploadHandler)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.Companies.ListCompaniesHandler)
			r.Get("/{name}", h.Companies.GetCompanyHandler)
			r.Get("/{name}/export", h.Companies.ExportCompanyHandler)
			r.With(requireAdmin).Delete("/{name}", h.Companies.DeleteCompanyHandler)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Post("/toggle/{id}", h.Questions.ToggleHandler)
			r.Get("/daily", h.Progress.DailyHandler)
			r.Get("/stats", h.Progress.StatsHandler)
			r.Get("/calendar", h.Progress.CalendarHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", h.Admin.LoginHandler)
			r.With(requireAdmin).Delete("/data", h.Admin.ClearDataHandler)
		})
	})
}
