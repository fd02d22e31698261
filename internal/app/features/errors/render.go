// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderNotFound writes a 404 and renders the shared error page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, message, backURL string) {
	renderError(w, r, http.StatusNotFound, "Not found", message, backURL)
}

// RenderForbidden writes a 403 and renders the shared error page.
func RenderForbidden(w http.ResponseWriter, r *http.Request, message, backURL string) {
	renderError(w, r, http.StatusForbidden, "Access denied", message, backURL)
}

// RenderUnauthorized writes a 401 and renders the shared error page.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, message, backURL string) {
	renderError(w, r, http.StatusUnauthorized, "Sign in required", message, backURL)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, title, message, backURL string) {
	role, name, _, signedIn := authz.UserCtx(r)

	if backURL == "" {
		backURL = "/"
	}

	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    message,
		BackURL:    backURL,
	})
}
