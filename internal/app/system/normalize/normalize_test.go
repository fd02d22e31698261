package normalize_test

import (
	"reflect"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/system/normalize"
)

func TestRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"admin", "admin"},
		{" Manager ", "manager"},
		{"MEMBER", "member"},
		{"superuser", "member"},
		{"", "member"},
	}
	for _, tt := range tests {
		if got := normalize.Role(tt.in); got != tt.want {
			t.Errorf("Role(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"manager", "manager"},
		{"Member", "member"},
		{"owner", "member"},
		{"", "member"},
	}
	for _, tt := range tests {
		if got := normalize.ProjectRole(tt.in); got != tt.want {
			t.Errorf("ProjectRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmail(t *testing.T) {
	if got := normalize.Email("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("Email = %q", got)
	}
}

func TestTags(t *testing.T) {
	got := normalize.Tags([]string{" Urgent ", "backend", "URGENT", "", "backend"})
	want := []string{"urgent", "backend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}

	if normalize.Tags(nil) != nil {
		t.Error("Tags(nil) should be nil")
	}
	if normalize.Tags([]string{" ", ""}) != nil {
		t.Error("Tags of only empties should be nil")
	}
}
