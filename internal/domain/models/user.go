// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Global roles. A user holds exactly one, independent of any project.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// ValidRole reports whether role is one of the three global roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleMember
}

// Auth methods for user accounts.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// RefreshToken is a long-lived credential stored on the user document.
// One is appended per API login/registration and removed individually on
// logout. Expired tokens are rejected at use time; a background worker
// purges them from storage.
type RefreshToken struct {
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the token is past its expiry at the given time.
func (rt RefreshToken) Expired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// User represents an account: identity plus credential.
//
// Email is stored lowercase and is unique (enforced by an index).
// PasswordHash is a bcrypt digest; the plaintext is never stored.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // admin | manager | member
	AuthMethod   string             `bson:"auth_method,omitempty" json:"-"`

	RefreshTokens []RefreshToken `bson:"refresh_tokens,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
