// internal/app/features/projects/delete.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles POST /projects/{projectID}/delete and
// DELETE /api/projects/{projectID}.
//
// Tasks under the project are left in place; they become unreachable through
// the project page but keep their records.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := gates.ProjectFromRequest(r)
	if !ok {
		respond.NotFound(w, r, "Project not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Projects.Delete(ctx, p.ID)
	if err != nil {
		h.Log.Error("delete project failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete project failed", err, "Unable to delete project.", "/projects")
		return
	}
	if deleted == 0 {
		respond.NotFound(w, r, "Project not found")
		return
	}

	respond.NoContent(w, r, "/projects")
}
