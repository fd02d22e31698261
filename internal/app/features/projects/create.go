// internal/app/features/projects/create.go
package projects

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/taskhub/internal/app/system/authz"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/viewdata"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeNew handles GET /projects/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "project_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "New Project", "/projects"),
	})
}

type projectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// readProjectInput pulls name and description from either a JSON body or a
// posted form, then sanitizes and validates them.
func (h *Handler) readProjectInput(w http.ResponseWriter, r *http.Request) (projectInput, string, bool) {
	var in projectInput
	if respond.IsAPI(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, "Invalid JSON body", false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return in, "Invalid form data", false
		}
		in.Name = r.FormValue("name")
		in.Description = r.FormValue("description")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = htmlsanitize.Sanitize(strings.TrimSpace(in.Description))

	switch {
	case in.Name == "":
		return in, "Project name is required", false
	case len(in.Name) > models.MaxProjectNameLen:
		return in, "Project name is too long", false
	case len(in.Description) > models.MaxProjectDescriptionLen:
		return in, "Project description is too long", false
	}
	return in, "", true
}

// HandleCreate handles POST /projects and POST /api/projects.
// The permission gate has already verified the principal's role.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, r)
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
			BaseVM:      viewdata.NewBaseVM(r, "New Project", "/projects"),
			Error:       errMsg,
			Name:        in.Name,
			Description: in.Description,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.Create(ctx, models.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     userID,
	})
	if err != nil {
		h.Log.Error("create project failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "create project failed", err, "Unable to create project.", "/projects")
		return
	}

	respond.Created(w, r, map[string]any{"project": toProjectVM(p)}, "/projects/"+p.ID.Hex())
}
