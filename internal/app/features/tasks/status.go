// internal/app/features/tasks/status.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.uber.org/zap"
)

type statusInput struct {
	Status string `json:"status"`
}

// HandleUpdateStatus handles POST /tasks/{taskID}/status and
// PATCH /api/tasks/{taskID}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	t, p, ok := h.resolveTask(w, r)
	if !ok {
		return
	}

	var in statusInput
	if respond.IsAPI(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, r, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/projects/"+p.ID.Hex())
			return
		}
		in.Status = r.FormValue("status")
	}

	in.Status = strings.TrimSpace(in.Status)
	if !models.ValidTaskStatus(in.Status) {
		respond.Error(w, r, http.StatusBadRequest, "Invalid task status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Tasks.UpdateStatus(ctx, t.ID, in.Status)
	switch {
	case errors.Is(err, taskstore.ErrNotFound):
		respond.NotFound(w, r, "Task not found")
		return
	case err != nil:
		h.Log.Error("update task status failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "update task status failed", err, "Unable to update task.", "/projects/"+p.ID.Hex())
		return
	}

	respond.OK(w, r, map[string]any{"task": toTaskVM(updated)}, "/projects/"+p.ID.Hex())
}
