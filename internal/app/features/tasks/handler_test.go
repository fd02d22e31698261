package tasks_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	uierrors "github.com/dalemusser/taskhub/internal/app/features/errors"
	"github.com/dalemusser/taskhub/internal/app/features/tasks"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	server   http.Handler
	fixtures *testutil.Fixtures
	tasks    *taskstore.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ts := taskstore.New(db)
	h := tasks.NewHandler(ts, projectstore.New(db), userstore.New(db),
		uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Use(respond.APIMode)
	r.Mount("/tasks", tasks.APIRoutes(h))

	return &env{server: r, fixtures: testutil.NewFixtures(t, db), tasks: ts}
}

func (e *env) do(method, path string, u models.User, body any) *httptest.ResponseRecorder {
	buf := bytes.NewBuffer(nil)
	if body != nil {
		_ = json.NewEncoder(buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role,
	})
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestCreateTask(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)
	outsider := e.fixtures.CreateUser(ctx, "Oscar", "oscar@example.com", models.RoleMember)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})

	rec := e.do("POST", "/tasks", member, map[string]any{
		"project_id": p.ID.Hex(),
		"title":      "Design the lander",
		"due_date":   "2026-12-01",
		"assignees":  []string{member.ID.Hex()},
		"tags":       []string{" Propulsion", "propulsion", "", "Thermal"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Task struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Priority string `json:"priority"`
		} `json:"task"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Task.Status != models.TaskStatusTodo || created.Task.Priority != models.TaskPriorityMedium {
		t.Errorf("defaults = %+v", created.Task)
	}

	// The creator is recorded.
	taskID, err := primitive.ObjectIDFromHex(created.Task.ID)
	if err != nil {
		t.Fatalf("ObjectIDFromHex(%q): %v", created.Task.ID, err)
	}
	stored, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.CreatedBy != member.ID {
		t.Errorf("CreatedBy = %v, want %v", stored.CreatedBy, member.ID)
	}
	if !reflect.DeepEqual(stored.Tags, []string{"propulsion", "thermal"}) {
		t.Errorf("Tags = %v, want normalized [propulsion thermal]", stored.Tags)
	}

	// Project membership is required even though the role gate passes.
	rec = e.do("POST", "/tasks", outsider, map[string]any{
		"project_id": p.ID.Hex(), "title": "Sneaky",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider create status = %d, want 403", rec.Code)
	}

	// Unknown project reads as 404, malformed id as 400.
	rec = e.do("POST", "/tasks", member, map[string]any{
		"project_id": "ffffffffffffffffffffffff", "title": "Lost",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing project status = %d, want 404", rec.Code)
	}
	rec = e.do("POST", "/tasks", member, map[string]any{
		"project_id": "nope", "title": "Lost",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad project id status = %d, want 400", rec.Code)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	stranger := e.fixtures.CreateUser(ctx, "Sam", "sam@example.com", models.RoleMember)
	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"project_id": p.ID.Hex()}},
		{"bad status", map[string]any{"project_id": p.ID.Hex(), "title": "T", "status": "open"}},
		{"bad priority", map[string]any{"project_id": p.ID.Hex(), "title": "T", "priority": "urgent"}},
		{"bad due date", map[string]any{"project_id": p.ID.Hex(), "title": "T", "due_date": "tomorrow"}},
		{"assignee outside project", map[string]any{
			"project_id": p.ID.Hex(), "title": "T", "assignees": []string{stranger.ID.Hex()},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do("POST", "/tasks", owner, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)
	outsider := e.fixtures.CreateUser(ctx, "Oscar", "oscar@example.com", models.RoleMember)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})
	task := e.fixtures.CreateTask(ctx, p.ID, "Design the lander")

	path := "/tasks/" + task.ID.Hex() + "/status"

	rec := e.do("PATCH", path, member, map[string]string{"status": models.TaskStatusDone})
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d, body %s", rec.Code, rec.Body.String())
	}
	got, err := e.tasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.TaskStatusDone {
		t.Errorf("status = %q, want done", got.Status)
	}

	rec = e.do("PATCH", path, member, map[string]string{"status": "open"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status = %d, want 400", rec.Code)
	}

	// Task access follows the task's project.
	rec = e.do("PATCH", path, outsider, map[string]string{"status": models.TaskStatusTodo})
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider status update = %d, want 403", rec.Code)
	}

	rec = e.do("PATCH", "/tasks/ffffffffffffffffffffffff/status", member,
		map[string]string{"status": models.TaskStatusTodo})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing task status = %d, want 404", rec.Code)
	}
}

func TestAssignTask(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})
	task := e.fixtures.CreateTask(ctx, p.ID, "Design the lander")

	path := "/tasks/" + task.ID.Hex() + "/assign"

	rec := e.do("PUT", path, owner, map[string]any{
		"assignees": []string{member.ID.Hex(), owner.ID.Hex()},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign status = %d, body %s", rec.Code, rec.Body.String())
	}
	got, err := e.tasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Assignees) != 2 {
		t.Errorf("assignees = %v, want 2 entries", got.Assignees)
	}

	// Clearing works with an empty list.
	rec = e.do("PUT", path, owner, map[string]any{"assignees": []string{}})
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	got, _ = e.tasks.GetByID(ctx, task.ID)
	if len(got.Assignees) != 0 {
		t.Errorf("assignees after clear = %v", got.Assignees)
	}

	// Global member role lacks task:assign even with project membership.
	rec = e.do("PUT", path, member, map[string]any{"assignees": []string{member.ID.Hex()}})
	if rec.Code != http.StatusForbidden {
		t.Errorf("member assign status = %d, want 403", rec.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})
	task := e.fixtures.CreateTask(ctx, p.ID, "Design the lander")

	path := "/tasks/" + task.ID.Hex()

	// Member role lacks task:delete.
	rec := e.do("DELETE", path, member, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member delete status = %d, want 403", rec.Code)
	}

	rec = e.do("DELETE", path, owner, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if _, err := e.tasks.GetByID(ctx, task.ID); err == nil {
		t.Error("task still present after delete")
	}

	rec = e.do("DELETE", path, owner, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
