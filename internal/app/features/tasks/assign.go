// internal/app/features/tasks/assign.go
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
	"go.uber.org/zap"
)

type assignInput struct {
	Assignees []string `json:"assignees"`
}

// HandleAssign handles POST /tasks/{taskID}/assign and
// PUT /api/tasks/{taskID}/assign. The submitted list replaces the task's
// assignees; an empty list clears them.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	t, p, ok := h.resolveTask(w, r)
	if !ok {
		return
	}

	var in assignInput
	if respond.IsAPI(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, r, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse assign form failed", err, "Invalid form data.", "/projects/"+p.ID.Hex())
			return
		}
		for _, v := range r.Form["assignees"] {
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					in.Assignees = append(in.Assignees, s)
				}
			}
		}
	}

	assignees, errMsg := h.parseAssignees(in.Assignees, p)
	if errMsg != "" {
		respond.Error(w, r, http.StatusBadRequest, errMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Tasks.UpdateAssignees(ctx, t.ID, assignees)
	switch {
	case errors.Is(err, taskstore.ErrNotFound):
		respond.NotFound(w, r, "Task not found")
		return
	case err != nil:
		h.Log.Error("assign task failed", zap.Error(err), zap.String("task_id", t.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "assign task failed", err, "Unable to assign task.", "/projects/"+p.ID.Hex())
		return
	}

	respond.OK(w, r, map[string]any{"task": toTaskVM(updated)}, "/projects/"+p.ID.Hex())
}
