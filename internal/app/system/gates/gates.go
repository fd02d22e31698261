// Package gates provides the authorization middleware and handler-level
// checks that guard every mutating route.
//
// # Layered authorization
//
// Authorization combines two independent checks, ANDed together:
//
//  1. Role permission (perm table): is the principal's global role in the
//     allowed set for this (resource, action)?
//  2. Project access (projectpolicy): is the principal the project owner, a
//     listed member, or a global admin?
//
// For operations with no target project (project:create) only the role
// check applies. For everything else both must pass; in particular, owning
// a project never substitutes for a missing role permission: an owner with
// global role "member" cannot delete their own project.
//
// Failure ordering: no principal yields Unauthenticated before anything
// else; a missing target yields Not Found before Forbidden; an existing
// target with denied access yields Forbidden.
//
// Routes with a {projectID} URL parameter use the RequireProjectAccess
// middleware, which stashes the loaded project in the request context so
// handlers don't repeat the lookup. Task-mediated operations (the project
// is only known after loading the task) use the ProjectAccess handler gate
// instead.
package gates

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/authz"
	"github.com/dalemusser/taskhub/internal/app/system/perm"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ctxKey string

const projectKey ctxKey = "resolvedProject"

// ProjectFromRequest returns the project stashed by RequireProjectAccess.
func ProjectFromRequest(r *http.Request) (models.Project, bool) {
	p, ok := r.Context().Value(projectKey).(models.Project)
	return p, ok
}

func withProject(r *http.Request, p models.Project) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), projectKey, p))
}

// RequirePermission checks the principal's global role against the static
// permission table for the given (resource, action). Unauthenticated
// requests get 401; authenticated requests whose role is outside the
// allowed set get 403. Pairs outside the table deny for every role.
func RequirePermission(res perm.Resource, act perm.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _, _, ok := authz.UserCtx(r)
			if !ok {
				respond.Unauthorized(w, r)
				return
			}
			if !perm.Allows(res, act, role) {
				respond.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireProjectAccess resolves the {projectID} URL parameter, loads the
// project, and classifies the principal against it. The request proceeds
// only when classification is owner, member, or admin-override; the loaded
// project is stashed in the request context.
func RequireProjectAccess(g projectpolicy.Getter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _, userID, ok := authz.UserCtx(r)
			if !ok {
				respond.Unauthorized(w, r)
				return
			}

			projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
			if err != nil {
				respond.NotFound(w, r, "Project not found")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
			defer cancel()

			project, level, err := projectpolicy.Resolve(ctx, g, projectID, userID, role)
			if err != nil {
				if errors.Is(err, projectstore.ErrNotFound) {
					respond.NotFound(w, r, "Project not found")
					return
				}
				respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !level.Granted() {
				respond.Forbidden(w, r)
				return
			}

			next.ServeHTTP(w, withProject(r, project))
		})
	}
}

// ProjectAccess is the handler-level form of RequireProjectAccess for
// operations where the target project is only known mid-handler (task
// create from a body field, task mutations via the task's project). It
// renders the failure itself and reports whether the caller may proceed.
func ProjectAccess(w http.ResponseWriter, r *http.Request, g projectpolicy.Getter, projectID primitive.ObjectID) (models.Project, bool) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, r)
		return models.Project{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	project, level, err := projectpolicy.Resolve(ctx, g, projectID, userID, role)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			respond.NotFound(w, r, "Project not found")
			return models.Project{}, false
		}
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return models.Project{}, false
	}
	if !level.Granted() {
		respond.Forbidden(w, r)
		return models.Project{}, false
	}
	return project, true
}
