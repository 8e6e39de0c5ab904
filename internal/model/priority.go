package model

import "github.com/A-ndrey/spdesk/internal/failure"

// Priority is shared by tickets, tasks and plans.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func (p Priority) validate(op string) error {
	if !p.Valid() {
		return failure.Validation(op, "Invalid priority")
	}

	return nil
}
