// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied identity fields before they
// are stored or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/taskhub/internal/domain/models"
)

// Role lowercases and trims a role string. Unknown or empty values fall back
// to "member" so a bad document can never grant elevated access.
func Role(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if !models.ValidRole(r) {
		return models.RoleMember
	}
	return r
}

// ProjectRole lowercases and trims a project-level role, defaulting to
// "member".
func ProjectRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if !models.ValidProjectRole(r) {
		return models.ProjectRoleMember
	}
	return r
}

// Email lowercases and trims an email address. Uniqueness checks and lookups
// always operate on the normalized form.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Tags trims, lowercases, and de-duplicates task tags, dropping empties.
func Tags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
