package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

const (
	PlanCategoryOther = "other"
	PlanStatusIdea    = "idea"
	PlanCompleted     = "completed"
)

type Plan struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Priority      Priority   `json:"priority"`
	Status        string     `json:"status"`
	TargetDate    *string    `json:"target_date"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedBy     string     `json:"created_by"`
	CreatedByName string     `json:"created_by_name"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type NewPlan struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    *Priority `json:"priority"`
	Status      string    `json:"status"`
	TargetDate  *string   `json:"target_date"`
}

// Normalize fills in defaults and validates p.
func (p NewPlan) Normalize() (NewPlan, error) {
	const op = "model.NewPlan"

	if strings.TrimSpace(p.Title) == "" {
		return NewPlan{}, failure.Validation(op, "Title is required")
	}

	if p.Category == "" {
		p.Category = PlanCategoryOther
	}
	if p.Status == "" {
		p.Status = PlanStatusIdea
	}
	if p.Priority == nil {
		medium := PriorityMedium
		p.Priority = &medium
	}

	if err := p.Priority.validate(op); err != nil {
		return NewPlan{}, err
	}

	return p, nil
}

type PlanPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Priority    *Priority `json:"priority"`
	Status      *string   `json:"status"`
	TargetDate  *string   `json:"target_date"`
}

func (p PlanPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Priority == nil && p.Status == nil && p.TargetDate == nil
}

func (p PlanPatch) Validate() error {
	const op = "model.PlanPatch"

	if p.Empty() {
		return failure.Validation(op, "No updates provided")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return failure.Validation(op, "Title cannot be empty")
	}
	if p.Priority != nil {
		return p.Priority.validate(op)
	}

	return nil
}
