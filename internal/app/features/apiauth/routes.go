// internal/app/features/apiauth/routes.go
package apiauth

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/auth router. Register, login, refresh, and logout
// are public; /me requires a bearer token.
func Routes(h *Handler, verifier auth.TokenVerifier) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireBearer(verifier))
		pr.Get("/me", h.Me)
	})

	return r
}
