// internal/app/system/auth/bearer.go
package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer access credential and returns the
// principal it encodes. Implemented by token.Issuer.
type TokenVerifier interface {
	Verify(token string) (*SessionUser, error)
}

// RequireBearer authenticates API requests from the Authorization header.
//
// The header must be exactly two space-separated tokens with the "Bearer"
// scheme. Anything else (missing header, malformed value, invalid or
// expired credential) terminates the request with 401 and a JSON error
// body. On success the principal is installed into the same context slot
// the session middleware uses, so downstream gates and handlers are
// surface-agnostic.
func RequireBearer(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Split(r.Header.Get("Authorization"), " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				writeUnauthorized(w)
				return
			}

			u, err := v.Verify(parts[1])
			if err != nil {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, withUser(r, u))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
