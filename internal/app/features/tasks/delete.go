// internal/app/features/tasks/delete.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles POST /tasks/{taskID}/delete and
// DELETE /api/tasks/{taskID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	t, p, ok := h.resolveTask(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Tasks.Delete(ctx, t.ID)
	if err != nil {
		h.Log.Error("delete task failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete task failed", err, "Unable to delete task.", "/projects/"+p.ID.Hex())
		return
	}
	if deleted == 0 {
		respond.NotFound(w, r, "Task not found")
		return
	}

	respond.NoContent(w, r, "/projects/"+p.ID.Hex())
}
