package projects_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/taskhub/internal/app/features/errors"
	"github.com/dalemusser/taskhub/internal/app/features/projects"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/respond"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type env struct {
	server   http.Handler
	fixtures *testutil.Fixtures
	projects *projectstore.Store
}

// newEnv wires the JSON project routes the way bootstrap does, minus bearer
// auth: tests inject the principal directly into the request context.
func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ps := projectstore.New(db)
	h := projects.NewHandler(ps, taskstore.New(db), userstore.New(db),
		uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Use(respond.APIMode)
	r.Mount("/projects", projects.APIRoutes(h))

	return &env{server: r, fixtures: testutil.NewFixtures(t, db), projects: ps}
}

func (e *env) do(method, path string, u models.User, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		reader = &bytes.Buffer{}
		_ = json.NewEncoder(reader).Encode(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role,
	})
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestCreateProject(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	manager := e.fixtures.CreateUser(ctx, "Maria", "maria@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)

	rec := e.do("POST", "/projects", manager, map[string]string{
		"name": "Apollo", "description": "Moonshot",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Project struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			OwnerID string `json:"owner_id"`
		} `json:"project"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Project.Name != "Apollo" || created.Project.OwnerID != manager.ID.Hex() {
		t.Errorf("project = %+v", created.Project)
	}

	// Member role may not create projects.
	rec = e.do("POST", "/projects", member, map[string]string{"name": "Denied"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("member create status = %d, want 403", rec.Code)
	}

	// Empty name rejected.
	rec = e.do("POST", "/projects", manager, map[string]string{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", rec.Code)
	}
}

func TestListProjects(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)
	outsider := e.fixtures.CreateUser(ctx, "Oscar", "oscar@example.com", models.RoleMember)

	e.fixtures.CreateProject(ctx, "Mine", owner.ID)
	e.fixtures.CreateProject(ctx, "Shared", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})

	var listing struct {
		Projects []struct {
			Name string `json:"name"`
		} `json:"projects"`
	}

	rec := e.do("GET", "/projects", owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner list status = %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Projects) != 2 {
		t.Errorf("owner sees %d projects, want 2", len(listing.Projects))
	}

	rec = e.do("GET", "/projects", member, nil)
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Projects) != 1 || listing.Projects[0].Name != "Shared" {
		t.Errorf("member listing = %+v", listing.Projects)
	}

	rec = e.do("GET", "/projects", outsider, nil)
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Projects) != 0 {
		t.Errorf("outsider sees %d projects, want 0", len(listing.Projects))
	}
}

func TestShowProject(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)
	outsider := e.fixtures.CreateUser(ctx, "Oscar", "oscar@example.com", models.RoleMember)
	admin := e.fixtures.CreateUser(ctx, "Ada", "ada@example.com", models.RoleAdmin)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})
	e.fixtures.CreateTask(ctx, p.ID, "Design the lander")

	path := "/projects/" + p.ID.Hex()

	for _, u := range []models.User{owner, member, admin} {
		rec := e.do("GET", path, u, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s show status = %d, want 200", u.Name, rec.Code)
		}
	}

	var shown struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	rec := e.do("GET", path, member, nil)
	if err := json.NewDecoder(rec.Body).Decode(&shown); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if shown.Project.Name != "Apollo" {
		t.Errorf("project = %+v", shown.Project)
	}
	if len(shown.Tasks) != 1 || shown.Tasks[0].Title != "Design the lander" {
		t.Errorf("tasks = %+v", shown.Tasks)
	}

	// Outsider is denied; an unknown id is not found.
	rec = e.do("GET", path, outsider, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider show status = %d, want 403", rec.Code)
	}
	rec = e.do("GET", "/projects/ffffffffffffffffffffffff", outsider, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing project status = %d, want 404", rec.Code)
	}
}

func TestUpdateProject(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	member := e.fixtures.CreateUser(ctx, "Milo", "milo@example.com", models.RoleMember)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID,
		models.ProjectMember{UserID: member.ID, Role: models.ProjectRoleMember})
	path := "/projects/" + p.ID.Hex()

	rec := e.do("PUT", path, owner, map[string]string{
		"name": "Apollo 11", "description": "Updated",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := e.projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Apollo 11" || got.Description != "Updated" {
		t.Errorf("project after update = %+v", got)
	}

	// Member role lacks project:update even with membership.
	rec = e.do("PUT", path, member, map[string]string{"name": "Nope"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("member update status = %d, want 403", rec.Code)
	}
}

func TestDeleteProject(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	admin := e.fixtures.CreateUser(ctx, "Ada", "ada@example.com", models.RoleAdmin)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID)
	path := "/projects/" + p.ID.Hex()

	// Only admins may delete, ownership notwithstanding.
	rec := e.do("DELETE", path, owner, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("owner delete status = %d, want 403", rec.Code)
	}

	rec = e.do("DELETE", path, admin, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete status = %d", rec.Code)
	}
	if _, err := e.projects.GetByID(ctx, p.ID); err == nil {
		t.Error("project still present after delete")
	}

	// Deleting again reads as not found.
	rec = e.do("DELETE", path, admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestAddMember(t *testing.T) {
	e := newEnv(t)
	ctx := testutil.TestContext(t)
	owner := e.fixtures.CreateUser(ctx, "Olive", "olive@example.com", models.RoleManager)
	newcomer := e.fixtures.CreateUser(ctx, "Nina", "nina@example.com", models.RoleMember)

	p := e.fixtures.CreateProject(ctx, "Apollo", owner.ID)
	path := "/projects/" + p.ID.Hex() + "/members"

	rec := e.do("POST", path, owner, map[string]string{
		"email": "Nina@Example.com", "role": "manager",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add member status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := e.projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.HasMember(newcomer.ID) {
		t.Fatal("newcomer not in members after add")
	}
	for _, m := range got.Members {
		if m.UserID == newcomer.ID && m.Role != models.ProjectRoleManager {
			t.Errorf("member role = %q, want manager", m.Role)
		}
	}

	// Unknown email reads as not found.
	rec = e.do("POST", path, owner, map[string]string{"email": "ghost@example.com"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown email status = %d, want 404", rec.Code)
	}

	// Once added, the newcomer can see the project but still cannot add
	// members: member is not in the project:addMember role set.
	rec = e.do("GET", "/projects/"+p.ID.Hex(), newcomer, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("newcomer show status = %d, want 200", rec.Code)
	}
	rec = e.do("POST", path, newcomer, map[string]string{"email": "olive@example.com"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("member add-member status = %d, want 403", rec.Code)
	}
}
