// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"errors"
	"net/http"

	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeEdit handles GET /projects/{projectID}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	p, ok := gates.ProjectFromRequest(r)
	if !ok {
		respond.NotFound(w, r, "Project not found")
		return
	}

	templates.Render(w, r, "project_form", formData{
		BaseVM:      viewdata.NewBaseVM(r, "Edit Project", "/projects/"+p.ID.Hex()),
		ProjectID:   p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
	})
}

// HandleUpdate handles POST /projects/{projectID}/edit and
// PUT /api/projects/{projectID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := gates.ProjectFromRequest(r)
	if !ok {
		respond.NotFound(w, r, "Project not found")
		return
	}

	in, errMsg, valid := h.readProjectInput(w, r)
	if !valid {
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusBadRequest, errMsg)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "project_form", formData{
			BaseVM:      viewdata.NewBaseVM(r, "Edit Project", "/projects/"+p.ID.Hex()),
			Error:       errMsg,
			ProjectID:   p.ID.Hex(),
			Name:        in.Name,
			Description: in.Description,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Projects.Update(ctx, p.ID, in.Name, in.Description)
	switch {
	case errors.Is(err, projectstore.ErrNotFound):
		respond.NotFound(w, r, "Project not found")
		return
	case err != nil:
		h.Log.Error("update project failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "update project failed", err, "Unable to update project.", "/projects/"+p.ID.Hex())
		return
	}

	respond.OK(w, r, map[string]any{"project": toProjectVM(updated)}, "/projects/"+updated.ID.Hex())
}
