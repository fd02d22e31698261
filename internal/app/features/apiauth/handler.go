// internal/app/features/apiauth/handler.go
package apiauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/authutil"
	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/token"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves token-based authentication for API clients.
type Handler struct {
	Users      *userstore.Store
	Issuer     *token.Issuer
	RefreshTTL time.Duration
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, issuer *token.Issuer, refreshTTL time.Duration, logger *zap.Logger) *Handler {
	if refreshTTL <= 0 {
		refreshTTL = token.DefaultRefreshTTL
	}
	return &Handler{
		Users:      users,
		Issuer:     issuer,
		RefreshTTL: refreshTTL,
		Log:        logger,
	}
}

type userVM struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserVM(u models.User) userVM {
	return userVM{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         userVM `json:"user"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/register                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalize.Email(req.Email)
	if req.Name == "" || req.Email == "" {
		respond.Error(w, r, http.StatusBadRequest, "Name and email are required")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Password does not meet requirements")
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         normalize.Role(req.Role),
		AuthMethod:   models.AuthMethodPassword,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, r, http.StatusBadRequest, "Email already registered")
		return
	case err != nil:
		h.Log.Error("create user", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	pair, err := h.issueTokens(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens after register", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusCreated, pair)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/login                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, normalize.Email(req.Email))
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, r, http.StatusUnauthorized, "Incorrect email or password")
		return
	case err != nil:
		h.Log.Error("find user by email", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !authutil.CheckPassword(req.Password, u.PasswordHash) {
		respond.Error(w, r, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	pair, err := h.issueTokens(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens after login", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, pair)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/refresh                                                      |
|                                                                             |
| Exchanges a stored refresh token for a fresh access token. The refresh      |
| token itself is not rotated; an expired one is rejected but left on the     |
| user record for the cleanup worker to collect.                              |
*─────────────────────────────────────────────────────────────────────────────*/

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respond.Error(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByRefreshToken(ctx, req.RefreshToken)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, r, http.StatusUnauthorized, "Invalid refresh token")
		return
	case err != nil:
		h.Log.Error("find user by refresh token", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	now := time.Now().UTC()
	active := false
	for _, rt := range u.RefreshTokens {
		if rt.Token == req.RefreshToken && !rt.Expired(now) {
			active = true
			break
		}
	}
	if !active {
		respond.Error(w, r, http.StatusUnauthorized, "Refresh token expired")
		return
	}

	access, err := h.Issuer.Issue(u)
	if err != nil {
		h.Log.Error("issue access token on refresh", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"access_token": access})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/logout                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respond.Error(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Logout is idempotent: revoking a token nobody holds is still a
	// successful revocation, so an unknown token gets the same 204.
	if _, err := h.Users.RemoveRefreshToken(ctx, req.RefreshToken); err != nil {
		h.Log.Error("remove refresh token", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/auth/me  (bearer)                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		respond.Unauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Unauthorized(w, r)
		return
	case err != nil:
		h.Log.Error("load current user", zap.Error(err), zap.String("user_id", su.ID))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, toUserVM(u))
}

// issueTokens mints an access token and persists a new refresh token on the
// user record.
func (h *Handler) issueTokens(ctx context.Context, u models.User) (tokenPair, error) {
	access, err := h.Issuer.Issue(u)
	if err != nil {
		return tokenPair{}, err
	}

	refresh, err := token.NewRefreshToken(h.RefreshTTL)
	if err != nil {
		return tokenPair{}, err
	}
	if err := h.Users.AddRefreshToken(ctx, u.ID, refresh); err != nil {
		return tokenPair{}, err
	}

	return tokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		User:         toUserVM(u),
	}, nil
}
