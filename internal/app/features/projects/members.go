// internal/app/features/projects/members.go
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type addMemberInput struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleAddMember handles POST /projects/{projectID}/members and
// POST /api/projects/{projectID}/members.
//
// The new member is identified by email. Adding a user who is already a
// member is a no-op.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	p, ok := gates.ProjectFromRequest(r)
	if !ok {
		respond.NotFound(w, r, "Project not found")
		return
	}

	var in addMemberInput
	if respond.IsAPI(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, r, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse add-member form failed", err, "Invalid form data.", "/projects/"+p.ID.Hex())
			return
		}
		in.Email = r.FormValue("email")
		in.Role = r.FormValue("role")
	}

	email := normalize.Email(in.Email)
	if email == "" {
		respond.Error(w, r, http.StatusBadRequest, "Member email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.NotFound(w, r, "User not found")
		return
	case err != nil:
		h.Log.Error("find member by email failed", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.Projects.AddMember(ctx, p.ID, u.ID, normalize.ProjectRole(in.Role)); err != nil {
		h.Log.Error("add member failed", zap.Error(err),
			zap.String("project_id", p.ID.Hex()),
			zap.String("member_id", u.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "add member failed", err, "Unable to add member.", "/projects/"+p.ID.Hex())
		return
	}

	respond.OK(w, r, map[string]any{"message": "Member added"}, "/projects/"+p.ID.Hex())
}
