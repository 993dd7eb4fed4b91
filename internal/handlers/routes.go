package handlers

import (
	"net/http"

	"portfolio-backend/internal/messages"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/settings"

	"github.com/go-chi/chi/v5"
)

// Routes groups the handlers mounted under /api and /api/v1.
type Routes struct {
	Server   *Server
	Projects *projects.Handler
	Messages *messages.Handler
	Settings *settings.Handler
	// Admin guards the admin-only routes.
	Admin func(http.Handler) http.Handler
	// ContactLimit throttles the public contact form; nil disables it.
	ContactLimit func(http.Handler) http.Handler
}

func (rt Routes) Register(api chi.Router) {
	api.Get("/resume", rt.Settings.GetResume)
	api.Get("/projects", rt.Projects.PublicList)

	if rt.ContactLimit != nil {
		api.With(rt.ContactLimit).Post("/messages", rt.Messages.Create)
	} else {
		api.Post("/messages", rt.Messages.Create)
	}

	api.Route("/admin", func(admin chi.Router) {
		admin.Post("/login", rt.Server.AdminLogin)
		admin.Post("/refresh", rt.Server.AdminRefresh)
		admin.Post("/logout", rt.Server.AdminLogout)
		// checks the posted password itself
		admin.Post("/resume", rt.Settings.AdminUpdateResume)

		admin.Group(func(protected chi.Router) {
			protected.Use(rt.Admin)
			protected.Get("/stats", rt.Server.AdminStats)
		})
	})

	api.Group(func(protected chi.Router) {
		protected.Use(rt.Admin)
		protected.Post("/projects", rt.Projects.AdminCreate)
		protected.Post("/projects/reset", rt.Projects.AdminReset)
		protected.Put("/projects/{id}", rt.Projects.AdminUpdate)
		protected.Delete("/projects/{id}", rt.Projects.AdminDelete)

		protected.Get("/messages", rt.Messages.AdminList)
		protected.Put("/messages/{id}/read", rt.Messages.AdminMarkRead)
		protected.Delete("/messages/{id}", rt.Messages.AdminDelete)
	})
}

// Mount registers the API under /api and /api/v1 plus the root health check.
func (rt Routes) Mount(r chi.Router) {
	r.Get("/healthz", rt.Server.Healthz)
	r.Route("/api", rt.Register)
	r.Route("/api/v1", rt.Register)
}
