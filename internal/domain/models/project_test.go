package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProjectHasMember(t *testing.T) {
	memberID := primitive.NewObjectID()
	p := Project{
		OwnerID: primitive.NewObjectID(),
		Members: []ProjectMember{{UserID: memberID, Role: ProjectRoleMember}},
	}

	if !p.HasMember(memberID) {
		t.Error("HasMember(member) = false")
	}
	if p.HasMember(p.OwnerID) {
		t.Error("HasMember(owner) = true; ownership is not membership")
	}
	if p.HasMember(primitive.NewObjectID()) {
		t.Error("HasMember(stranger) = true")
	}
}

func TestValidProjectRole(t *testing.T) {
	if !ValidProjectRole(ProjectRoleManager) || !ValidProjectRole(ProjectRoleMember) {
		t.Error("enumerated project roles rejected")
	}
	for _, r := range []string{"", "owner", "Admin"} {
		if ValidProjectRole(r) {
			t.Errorf("ValidProjectRole(%q) = true", r)
		}
	}
}
