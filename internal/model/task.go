package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	default:
		return false
	}
}

type AssignedUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Task struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   *string        `json:"description"`
	AssignedUsers []AssignedUser `json:"assigned_users"`
	CreatedBy     string         `json:"created_by"`
	CreatedByName string         `json:"created_by_name"`
	Priority      Priority       `json:"priority"`
	Status        TaskStatus     `json:"status"`
	DueDate       *string        `json:"due_date"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// AssignedTo reports whether userID is one of the task's assignees.
func (t Task) AssignedTo(userID string) bool {
	for _, u := range t.AssignedUsers {
		if u.ID == userID {
			return true
		}
	}

	return false
}

type NewTask struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	AssignedTo  []string `json:"assigned_to"`
	Priority    Priority `json:"priority"`
	DueDate     *string  `json:"due_date"`
}

func (t NewTask) Validate() error {
	const op = "model.NewTask"

	if strings.TrimSpace(t.Title) == "" {
		return failure.Validation(op, "Title is required")
	}
	if len(t.AssignedTo) == 0 {
		return failure.Validation(op, "At least one assignee is required")
	}
	for _, id := range t.AssignedTo {
		if strings.TrimSpace(id) == "" {
			return failure.Validation(op, "Assignee id cannot be empty")
		}
	}

	return t.Priority.validate(op)
}

type TaskPatch struct {
	Status   *TaskStatus `json:"status"`
	Priority *Priority   `json:"priority"`
	DueDate  *string     `json:"due_date"`
}

func (p TaskPatch) Empty() bool {
	return p.Status == nil && p.Priority == nil && p.DueDate == nil
}

func (p TaskPatch) Validate() error {
	const op = "model.TaskPatch"

	if p.Empty() {
		return failure.Validation(op, "No updates provided")
	}
	if p.Status != nil && !p.Status.Valid() {
		return failure.Validation(op, "Invalid status")
	}
	if p.Priority != nil {
		return p.Priority.validate(op)
	}

	return nil
}

type TaskFilter struct {
	Status     *TaskStatus
	AssignedTo *string
}
