// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/perm"
	"github.com/go-chi/chi/v5"
)

// WebRoutes mounts the browser-facing project routes (typically under
// "/projects" from bootstrap).
//
// For routes addressing an existing project, the access gate runs before the
// permission gate so an unreachable project reads as 404 rather than 403.
func WebRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(gates.RequirePermission(perm.ResourceProject, perm.ActionCreate))
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
	})

	r.Route("/{projectID}", func(pr chi.Router) {
		pr.Use(gates.RequireProjectAccess(h.Projects))

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionView)).
			Get("/", h.ServeShow)

		pr.Group(func(mr chi.Router) {
			mr.Use(gates.RequirePermission(perm.ResourceProject, perm.ActionUpdate))
			mr.Get("/edit", h.ServeEdit)
			mr.Post("/edit", h.HandleUpdate)
		})

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionDelete)).
			Post("/delete", h.HandleDelete)

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionAddMember)).
			Post("/members", h.HandleAddMember)
	})

	return r
}

// APIRoutes mounts the JSON project routes (under "/api/projects" from
// bootstrap, behind bearer authentication).
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.With(gates.RequirePermission(perm.ResourceProject, perm.ActionCreate)).
		Post("/", h.HandleCreate)

	r.Route("/{projectID}", func(pr chi.Router) {
		pr.Use(gates.RequireProjectAccess(h.Projects))

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionView)).
			Get("/", h.ServeShow)

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionUpdate)).
			Put("/", h.HandleUpdate)

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionDelete)).
			Delete("/", h.HandleDelete)

		pr.With(gates.RequirePermission(perm.ResourceProject, perm.ActionAddMember)).
			Post("/members", h.HandleAddMember)
	})

	return r
}
