package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestSignInAndLoadSessionUser(t *testing.T) {
	sm := newManager(t)

	// Sign in and capture the cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/login", nil)
	u := &auth.SessionUser{ID: "abc123", Name: "Ada", Email: "ada@example.com", Role: "manager"}
	if err := sm.SignIn(signinRec, signinReq, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn wrote no cookie")
	}

	// Replay the cookie through the loader middleware.
	var got *auth.SessionUser
	var found bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/projects", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatal("no user in context after LoadSessionUser")
	}
	if got.ID != "abc123" || got.Role != "manager" || got.Email != "ada@example.com" {
		t.Errorf("user = %+v", got)
	}
}

func TestLoadSessionUser_NoCookie(t *testing.T) {
	sm := newManager(t)

	var found bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if found {
		t.Error("expected anonymous request to carry no user")
	}
}

func TestRequireSignedIn_RedirectsHTML(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/projects?filter=open", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("Location = %q, want /login?return=...", loc)
	}
}

func TestRequireSignedIn_NonHTMLGets401(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/projects", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSignedIn_PassesWithUser(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/projects", nil),
		&auth.SessionUser{ID: "abc", Role: "member"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

type stubVerifier struct {
	user *auth.SessionUser
	err  error
}

func (s stubVerifier) Verify(token string) (*auth.SessionUser, error) {
	return s.user, s.err
}

func TestRequireBearer(t *testing.T) {
	valid := stubVerifier{user: &auth.SessionUser{ID: "abc", Role: "admin"}}
	invalid := stubVerifier{err: errors.New("bad token")}

	tests := []struct {
		name     string
		header   string
		verifier auth.TokenVerifier
		want     int
	}{
		{"missing header", "", valid, http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", valid, http.StatusUnauthorized},
		{"empty token", "Bearer ", valid, http.StatusUnauthorized},
		{"rejected token", "Bearer sometoken", invalid, http.StatusUnauthorized},
		{"valid token", "Bearer sometoken", valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.SessionUser
			handler := auth.RequireBearer(tt.verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.CurrentUser(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && (got == nil || got.ID != "abc") {
				t.Errorf("user in context = %+v, want ID abc", got)
			}
			if tt.want == http.StatusUnauthorized {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
			}
		})
	}
}
