// internal/app/policy/projectpolicy/projectpolicy.go

// Package projectpolicy classifies a principal's relationship to a project:
// owner, listed member, admin override, or none. This is the sole access
// gate for project-scoped operations; role permissions are checked
// separately by the perm table and the two never substitute for each other.
package projectpolicy

import (
	"context"

	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessLevel is the result of classifying a principal against a project.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessMember
	AccessOwner
	AccessAdmin // global admin override, regardless of membership
)

// String returns the classification name used in logs.
func (a AccessLevel) String() string {
	switch a {
	case AccessMember:
		return "member"
	case AccessOwner:
		return "owner"
	case AccessAdmin:
		return "admin-override"
	}
	return "none"
}

// Granted reports whether the classification allows reaching the project at
// all.
func (a AccessLevel) Granted() bool {
	return a != AccessNone
}

// Classify determines the principal's relationship to an already-loaded
// project. Owner wins over membership; a global admin is granted regardless
// of either.
func Classify(p models.Project, userID primitive.ObjectID, role string) AccessLevel {
	if role == models.RoleAdmin {
		return AccessAdmin
	}
	if p.OwnerID == userID {
		return AccessOwner
	}
	if p.HasMember(userID) {
		return AccessMember
	}
	return AccessNone
}

// Getter loads a project by id. Implemented by projectstore.Store.
type Getter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
}

// Resolve loads the project and classifies the principal against it. A
// missing project surfaces the store's ErrNotFound unchanged so callers can
// render Not Found distinctly from Forbidden. The loaded project is returned
// so callers can stash it and avoid a duplicate lookup.
func Resolve(ctx context.Context, g Getter, projectID, userID primitive.ObjectID, role string) (models.Project, AccessLevel, error) {
	p, err := g.GetByID(ctx, projectID)
	if err != nil {
		return models.Project{}, AccessNone, err
	}
	return p, Classify(p, userID, role), nil
}
