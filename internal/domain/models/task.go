// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusArchived   = "archived"
)

// ValidTaskStatus reports whether status is one of the enumerated values.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// ValidTaskPriority reports whether priority is one of the enumerated values.
func ValidTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Field limits for task input.
const (
	MaxTaskTitleLen       = 160
	MaxTaskDescriptionLen = 5000
)

// Task is a unit of work scoped to exactly one project.
//
// Deleting a project does not cascade-delete its tasks; orphaned tasks
// remain queryable by id.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID   `bson:"project_id" json:"project_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Status      string               `bson:"status" json:"status"`     // todo | in_progress | done | archived
	Priority    string               `bson:"priority" json:"priority"` // low | medium | high
	DueDate     *time.Time           `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Assignees   []primitive.ObjectID `bson:"assignees,omitempty" json:"assignees"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Tags        []string             `bson:"tags,omitempty" json:"tags,omitempty"` // trimmed, lowercased

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOverdue reports whether the task has a due date in the past and is not
// done. Computed, never stored.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != TaskStatusDone && now.After(*t.DueDate)
}
