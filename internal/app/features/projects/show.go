// internal/app/features/projects/show.go
package projects

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/authz"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/perm"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeShow handles GET /projects/{projectID} and GET /api/projects/{projectID}.
// The access gate has already resolved the project into the request context.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	p, ok := gates.ProjectFromRequest(r)
	if !ok {
		respond.NotFound(w, r, "Project not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	taskList, err := h.Tasks.ListForProject(ctx, p.ID)
	if err != nil {
		h.Log.Error("list project tasks failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "list project tasks failed", err, "Unable to load tasks.", "/projects")
		return
	}

	now := time.Now().UTC()
	taskVMs := make([]taskRowVM, 0, len(taskList))
	for _, t := range taskList {
		taskVMs = append(taskVMs, toTaskRowVM(t, now))
	}

	pvm := toProjectVM(p)
	h.attachMemberDetails(ctx, p.OwnerID, &pvm)

	if respond.IsAPI(r) {
		respond.JSON(w, http.StatusOK, map[string]any{
			"project": pvm,
			"tasks":   taskVMs,
		})
		return
	}

	role, _, _, _ := authz.UserCtx(r)
	templates.Render(w, r, "project_show", showData{
		BaseVM:       viewdata.NewBaseVM(r, p.Name, "/projects"),
		Project:      pvm,
		Tasks:        taskVMs,
		CanUpdate:    perm.Allows(perm.ResourceProject, perm.ActionUpdate, role),
		CanDelete:    perm.Allows(perm.ResourceProject, perm.ActionDelete, role),
		CanAddMember: perm.Allows(perm.ResourceProject, perm.ActionAddMember, role),
	})
}

// attachMemberDetails fills in member names and emails for display. Lookup
// failures leave the bare IDs in place rather than failing the page.
func (h *Handler) attachMemberDetails(ctx context.Context, ownerID primitive.ObjectID, pvm *projectVM) {
	ids := make([]primitive.ObjectID, 0, len(pvm.Members)+1)
	ids = append(ids, ownerID)
	for _, m := range pvm.Members {
		if id, err := primitive.ObjectIDFromHex(m.UserID); err == nil {
			ids = append(ids, id)
		}
	}

	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("member detail lookup failed", zap.Error(err))
		return
	}

	byID := make(map[string]struct{ name, email string }, len(users))
	for _, u := range users {
		byID[u.ID.Hex()] = struct{ name, email string }{u.Name, u.Email}
	}
	for i := range pvm.Members {
		if d, ok := byID[pvm.Members[i].UserID]; ok {
			pvm.Members[i].Name = d.name
			pvm.Members[i].Email = d.email
		}
	}
}
