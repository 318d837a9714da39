package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formforge/internal/auth"
	"github.com/parisxmas/formforge/internal/handler"
	mw "github.com/parisxmas/formforge/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	formH *handler.FormHandler,
	subH *handler.SubmissionHandler,
	searchH *handler.SearchHandler,
	dashH *handler.DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/register", authH.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			// Auth
			r.Get("/auth/me", authH.Me)

			// Dashboard
			r.Get("/dashboard", dashH.Dashboard)

			// Forms (immutable snapshots: no update route)
			r.Get("/forms", formH.List)
			r.Post("/forms", formH.Create)
			r.Get("/forms/{formId}", formH.Get)
			r.Delete("/forms/{formId}", formH.Delete)

			// Preview: derivation and validation over a posted value set
			r.Post("/forms/{formId}/derive", formH.Derive)
			r.Post("/forms/{formId}/validate", formH.Validate)

			// Submissions
			r.Get("/forms/{formId}/submissions", subH.List)
			r.Post("/forms/{formId}/submissions", subH.Create)
			r.Get("/forms/{formId}/submissions/{subId}", subH.Get)
			r.Delete("/forms/{formId}/submissions/{subId}", subH.Delete)

			// Search
			r.Post("/search", searchH.Search)
		})
	})

	return r
}
