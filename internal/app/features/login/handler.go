// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/taskhub/internal/app/features/errors"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/authutil"
	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/viewdata"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

type Handler struct {
	Users         *userstore.Store
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	GoogleEnabled bool
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         users,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

type registerFormData struct {
	viewdata.BaseVM
	Error         string
	Name          string
	Email         string
	PasswordRules string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, r, "Please enter your email and password.", email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.renderLoginError(w, r, "Incorrect email or password.", email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "find user by email", err, "A server error occurred.", "/login")
		return
	}

	if u.AuthMethod == models.AuthMethodGoogle {
		h.renderLoginError(w, r, "This account uses Google sign-in. Use the Google button below.", email)
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.renderLoginError(w, r, "Incorrect email or password.", email)
		return
	}

	h.signInAndRedirect(w, r, u, strings.TrimSpace(r.FormValue("return")))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Register", "/login"),
		PasswordRules: authutil.PasswordRules(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form data.", "/register")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" {
		h.renderRegisterError(w, r, "Name and email are required.", name, email)
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		h.renderRegisterError(w, r, passwordErrorMessage(err), name, email)
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleMember,
		AuthMethod:   models.AuthMethodPassword,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.renderRegisterError(w, r, "An account with that email already exists.", name, email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user", err, "A server error occurred.", "/register")
		return
	}

	h.signInAndRedirect(w, r, u, "")
}

func (h *Handler) signInAndRedirect(w http.ResponseWriter, r *http.Request, u models.User, returnURL string) {
	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid during sign-in", zap.Error(err), zap.String("user_id", su.ID))
		} else {
			h.Log.Error("sign-in failed", zap.Error(err), zap.String("user_id", su.ID))
			h.renderLoginError(w, r, "Unable to create session. Please try again.", u.Email)
			return
		}
	}

	dest := urlutil.SafeReturn(returnURL, "", "/projects")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, msg, email string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Login", "/"),
		Error:         msg,
		Email:         email,
		GoogleEnabled: h.GoogleEnabled,
	})
}

func (h *Handler) renderRegisterError(w http.ResponseWriter, r *http.Request, msg, name, email string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "register", registerFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Register", "/login"),
		Error:         msg,
		Name:          name,
		Email:         email,
		PasswordRules: authutil.PasswordRules(),
	})
}

func passwordErrorMessage(err error) string {
	switch {
	case errors.Is(err, authutil.ErrPasswordTooShort):
		return "Password is too short."
	case errors.Is(err, authutil.ErrPasswordTooLong):
		return "Password is too long."
	case errors.Is(err, authutil.ErrPasswordCommon):
		return "That password is too common. Please pick another."
	default:
		return "Invalid password."
	}
}
