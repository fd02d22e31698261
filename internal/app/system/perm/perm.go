// internal/app/system/perm/perm.go

// Package perm holds the static permission table mapping (resource, action)
// to the set of global roles allowed to perform it.
//
// Resources and actions are typed enumerations matched with a switch, so an
// unknown pair falls out of the switch and denies. There is no runtime map
// lookup to mistype.
package perm

import (
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// Resource is the kind of entity an action targets.
type Resource int

const (
	ResourceProject Resource = iota
	ResourceTask
)

// String returns the resource name used in logs.
func (r Resource) String() string {
	switch r {
	case ResourceProject:
		return "project"
	case ResourceTask:
		return "task"
	}
	return "unknown"
}

// Action is an operation on a resource.
type Action int

const (
	ActionCreate Action = iota
	ActionView
	ActionUpdate
	ActionDelete
	ActionAssign
	ActionAddMember
)

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionView:
		return "view"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionAssign:
		return "assign"
	case ActionAddMember:
		return "addMember"
	}
	return "unknown"
}

// AllowedRoles returns the global roles permitted to perform the action on
// the resource. Pairs outside the table return nil: deny-by-default.
func AllowedRoles(res Resource, act Action) []string {
	switch res {
	case ResourceProject:
		switch act {
		case ActionCreate, ActionUpdate, ActionAddMember:
			return []string{models.RoleAdmin, models.RoleManager}
		case ActionDelete:
			return []string{models.RoleAdmin}
		case ActionView:
			return []string{models.RoleAdmin, models.RoleManager, models.RoleMember}
		}
	case ResourceTask:
		switch act {
		case ActionCreate, ActionUpdate:
			return []string{models.RoleAdmin, models.RoleManager, models.RoleMember}
		case ActionDelete, ActionAssign:
			return []string{models.RoleAdmin, models.RoleManager}
		}
	}
	return nil
}

// Allows reports whether the given global role may perform the action on the
// resource.
func Allows(res Resource, act Action, role string) bool {
	for _, allowed := range AllowedRoles(res, act) {
		if role == allowed {
			return true
		}
	}
	return false
}
