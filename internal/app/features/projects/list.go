// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/authz"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeList handles GET /projects and GET /api/projects.
// It returns every project the principal owns or belongs to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Projects.ListForUser(ctx, userID)
	if err != nil {
		h.Log.Error("list projects failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "list projects failed", err, "Unable to load your projects.", "/")
		return
	}

	vms := make([]projectVM, 0, len(list))
	for _, p := range list {
		vms = append(vms, toProjectVM(p))
	}

	if respond.IsAPI(r) {
		respond.JSON(w, http.StatusOK, map[string]any{"projects": vms})
		return
	}

	templates.Render(w, r, "projects_list", listData{
		BaseVM:   viewdata.NewBaseVM(r, "Projects", "/"),
		Projects: vms,
	})
}
