// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/perm"
	"github.com/go-chi/chi/v5"
)

// WebRoutes mounts the browser-facing task routes (under "/tasks" from
// bootstrap). The role gate runs per route; project access is resolved in
// the handlers, since tasks carry their project reference in the body or in
// their own record.
func WebRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.With(gates.RequirePermission(perm.ResourceTask, perm.ActionCreate)).
		Post("/", h.HandleCreate)

	r.Route("/{taskID}", func(tr chi.Router) {
		tr.With(gates.RequirePermission(perm.ResourceTask, perm.ActionUpdate)).
			Post("/status", h.HandleUpdateStatus)

		tr.With(gates.RequirePermission(perm.ResourceTask, perm.ActionAssign)).
			Post("/assign", h.HandleAssign)

		tr.With(gates.RequirePermission(perm.ResourceTask, perm.ActionDelete)).
			Post("/delete", h.HandleDelete)
	})

	return r
}

// APIRoutes mounts the JSON task routes (under "/api/tasks" from bootstrap,
// behind bearer authentication).
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(gates.RequirePermission(perm.ResourceTask, perm.ActionCreate)).
		Post("/", h.HandleCreate)

	r.Route("/{taskID}", func(tr chi.Router) {
		tr.With(gates.RequirePermission(perm.ResourceTask, perm.ActionUpdate)).
			Patch("/status", h.HandleUpdateStatus)

		tr.With(gates.RequirePermission(perm.ResourceTask, perm.ActionAssign)).
			Put("/assign", h.HandleAssign)

		tr.With(gates.RequirePermission(perm.ResourceTask, perm.ActionDelete)).
			Delete("/", h.HandleDelete)
	})

	return r
}
