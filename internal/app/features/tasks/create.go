// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/authz"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createInput struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	Assignees   []string `json:"assignees"`
	Tags        []string `json:"tags"`
}

// HandleCreate handles POST /tasks and POST /api/tasks.
//
// The target project arrives in the body rather than the URL, so the access
// gate runs here after the body is parsed.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if respond.IsAPI(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, r, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse task form failed", err, "Invalid form data.", "/projects")
			return
		}
		in.ProjectID = r.FormValue("project_id")
		in.Title = r.FormValue("title")
		in.Description = r.FormValue("description")
		in.Status = r.FormValue("status")
		in.Priority = r.FormValue("priority")
		in.DueDate = r.FormValue("due_date")
		if s := r.FormValue("tags"); s != "" {
			in.Tags = strings.Split(s, ",")
		}
	}

	projectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.ProjectID))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "A valid project id is required")
		return
	}

	p, ok := gates.ProjectAccess(w, r, h.Projects, projectID)
	if !ok {
		return
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = htmlsanitize.Sanitize(strings.TrimSpace(in.Description))
	switch {
	case in.Title == "":
		respond.Error(w, r, http.StatusBadRequest, "Task title is required")
		return
	case len(in.Title) > models.MaxTaskTitleLen:
		respond.Error(w, r, http.StatusBadRequest, "Task title is too long")
		return
	case len(in.Description) > models.MaxTaskDescriptionLen:
		respond.Error(w, r, http.StatusBadRequest, "Task description is too long")
		return
	case in.Status != "" && !models.ValidTaskStatus(in.Status):
		respond.Error(w, r, http.StatusBadRequest, "Invalid task status")
		return
	case in.Priority != "" && !models.ValidTaskPriority(in.Priority):
		respond.Error(w, r, http.StatusBadRequest, "Invalid task priority")
		return
	}

	var due *time.Time
	if s := strings.TrimSpace(in.DueDate); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			if d, err = time.Parse(time.RFC3339, s); err != nil {
				respond.Error(w, r, http.StatusBadRequest, "Invalid due date")
				return
			}
		}
		due = &d
	}

	assignees, errMsg := h.parseAssignees(in.Assignees, p)
	if errMsg != "" {
		respond.Error(w, r, http.StatusBadRequest, errMsg)
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.Create(ctx, models.Task{
		ProjectID:   p.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Assignees:   assignees,
		Tags:        normalize.Tags(in.Tags),
		DueDate:     due,
		CreatedBy:   userID,
	})
	if err != nil {
		h.Log.Error("create task failed", zap.Error(err), zap.String("project_id", p.ID.Hex()))
		if respond.IsAPI(r) {
			respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.ErrLog.LogServerError(w, r, "create task failed", err, "Unable to create task.", "/projects/"+p.ID.Hex())
		return
	}

	respond.Created(w, r, map[string]any{"task": toTaskVM(t)}, "/projects/"+p.ID.Hex())
}

// parseAssignees converts assignee hex IDs and checks each one is the
// project owner or a listed member.
func (h *Handler) parseAssignees(raw []string, p models.Project) ([]primitive.ObjectID, string) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
		if err != nil {
			return nil, "Invalid assignee id"
		}
		if id != p.OwnerID && !p.HasMember(id) {
			return nil, "Assignee is not part of this project"
		}
		out = append(out, id)
	}
	return out, ""
}
