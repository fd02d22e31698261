// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project roles, scoped to membership within a single project.
// Distinct from the global roles on User.
const (
	ProjectRoleManager = "manager"
	ProjectRoleMember  = "member"
)

// ValidProjectRole reports whether role is a valid project-level role.
func ValidProjectRole(role string) bool {
	return role == ProjectRoleManager || role == ProjectRoleMember
}

// Field limits for project input.
const (
	MaxProjectNameLen        = 140
	MaxProjectDescriptionLen = 2000
)

// ProjectMember pairs a user with their role inside the project.
type ProjectMember struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role   string             `bson:"role" json:"role"` // manager | member
}

// Project is a named workspace owned by exactly one user.
//
// The owner is immutable after creation and is a full-access principal
// even when not listed in Members.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Members     []ProjectMember    `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the given user appears in Members.
// Ownership is not membership; callers check OwnerID separately.
func (p Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
