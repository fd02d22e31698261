// internal/app/features/projects/types.go
package projects

import (
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/viewdata"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// memberVM is one member row, for both JSON and templates.
type memberVM struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// projectVM is the serialized form of a project.
type projectVM struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id"`
	Members     []memberVM `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toProjectVM(p models.Project) projectVM {
	vm := projectVM{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.Hex(),
		Members:     make([]memberVM, 0, len(p.Members)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, m := range p.Members {
		vm.Members = append(vm.Members, memberVM{
			UserID: m.UserID.Hex(),
			Role:   m.Role,
		})
	}
	return vm
}

// taskRowVM is a task row on the project page.
type taskRowVM struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date,omitempty"`
	Overdue  bool   `json:"overdue"`
}

func toTaskRowVM(t models.Task, now time.Time) taskRowVM {
	vm := taskRowVM{
		ID:       t.ID.Hex(),
		Title:    t.Title,
		Status:   t.Status,
		Priority: t.Priority,
		Overdue:  t.IsOverdue(now),
	}
	if t.DueDate != nil {
		vm.DueDate = t.DueDate.Format("2006-01-02")
	}
	return vm
}

// listData is the view model for the project list page.
type listData struct {
	viewdata.BaseVM
	Projects []projectVM
}

// showData is the view model for the project detail page.
type showData struct {
	viewdata.BaseVM
	Project      projectVM
	Tasks        []taskRowVM
	CanUpdate    bool
	CanDelete    bool
	CanAddMember bool
}

// formData is the view model for the new/edit project forms.
type formData struct {
	viewdata.BaseVM
	Error       string
	ProjectID   string
	Name        string
	Description string
}
