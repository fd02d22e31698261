// internal/app/system/respond/respond.go

// Package respond renders handler output for both entry surfaces. The /api
// route tree is marked once per request by the APIMode middleware; every
// helper then picks the right shape (JSON for API calls, redirect or plain
// text for browser calls) so controllers shared between the two trees never
// branch on the surface themselves.
package respond

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey string

const apiModeKey ctxKey = "apiMode"

// APIMode marks every request passing through it as a programmatic-API call.
// Mount it once at the root of the /api tree.
func APIMode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiModeKey, true)))
	})
}

// IsAPI reports whether the request came in through the API tree.
func IsAPI(r *http.Request) bool {
	v, _ := r.Context().Value(apiModeKey).(bool)
	return v
}

// JSON writes a JSON body with the given status. It is surface-independent;
// use it for endpoints that are JSON on both trees (e.g. /health).
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK renders a success result: JSON payload for API calls, 303 redirect to
// redirectTo for browser calls.
func OK(w http.ResponseWriter, r *http.Request, payload any, redirectTo string) {
	if IsAPI(r) {
		JSON(w, http.StatusOK, payload)
		return
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// Created renders a creation result: 201 JSON for API calls, 303 redirect
// for browser calls.
func Created(w http.ResponseWriter, r *http.Request, payload any, redirectTo string) {
	if IsAPI(r) {
		JSON(w, http.StatusCreated, payload)
		return
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// NoContent renders a deletion/logout result: 204 for API calls, 303
// redirect for browser calls.
func NoContent(w http.ResponseWriter, r *http.Request, redirectTo string) {
	if IsAPI(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// Error renders a failure: {"error": msg} JSON for API calls, plain text for
// browser calls. Authorization gates and controllers use this for 4xx/5xx.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if IsAPI(r) {
		JSON(w, status, map[string]string{"error": msg})
		return
	}
	http.Error(w, msg, status)
}

// Unauthorized is the 401 failure shape.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden is the 403 failure shape.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusForbidden, "Forbidden")
}

// NotFound is the 404 failure shape with a resource-specific message.
func NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Not found"
	}
	Error(w, r, http.StatusNotFound, msg)
}
