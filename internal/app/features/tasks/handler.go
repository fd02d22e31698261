// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/taskhub/internal/app/features/errors"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/gates"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Tasks. Tasks are addressed
// directly by ID, so each mutating handler resolves the owning project and
// runs the access gate before touching the task.
type Handler struct {
	Tasks    *taskstore.Store
	Projects *projectstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a Tasks handler bound to its stores and logger.
func NewHandler(tasks *taskstore.Store, projects *projectstore.Store, users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:    tasks,
		Projects: projects,
		Users:    users,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// taskVM is the serialized form of a task.
type taskVM struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Assignees   []string   `json:"assignees"`
	Tags        []string   `json:"tags,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskVM(t models.Task) taskVM {
	vm := taskVM{
		ID:          t.ID.Hex(),
		ProjectID:   t.ProjectID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Assignees:   make([]string, 0, len(t.Assignees)),
		Tags:        t.Tags,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, a := range t.Assignees {
		vm.Assignees = append(vm.Assignees, a.Hex())
	}
	return vm
}

// resolveTask loads the task named by {taskID} and gates access to its
// project. On failure it writes the response and returns ok=false. The
// project lookup doubles as the 404 for tasks whose project is gone.
func (h *Handler) resolveTask(w http.ResponseWriter, r *http.Request) (models.Task, models.Project, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "taskID"))
	if err != nil {
		respond.NotFound(w, r, "Task not found")
		return models.Task{}, models.Project{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	switch {
	case errors.Is(err, taskstore.ErrNotFound):
		respond.NotFound(w, r, "Task not found")
		return models.Task{}, models.Project{}, false
	case err != nil:
		h.Log.Error("load task failed", zap.Error(err), zap.String("task_id", id.Hex()))
		respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
		return models.Task{}, models.Project{}, false
	}

	p, ok := gates.ProjectAccess(w, r, h.Projects, t.ProjectID)
	if !ok {
		return models.Task{}, models.Project{}, false
	}
	return t, p, true
}
