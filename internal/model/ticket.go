package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	default:
		return false
	}
}

type Ticket struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    Priority     `json:"priority"`
	Status      TicketStatus `json:"status"`
	AssignedTo  *string      `json:"assigned_to"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ResolvedAt  *time.Time   `json:"resolved_at"`
}

type NewTicket struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

func (t NewTicket) Validate() error {
	const op = "model.NewTicket"

	if strings.TrimSpace(t.Title) == "" {
		return failure.Validation(op, "Title is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return failure.Validation(op, "Description is required")
	}

	return t.Priority.validate(op)
}

type TicketPatch struct {
	Status     *TicketStatus `json:"status"`
	AssignedTo *string       `json:"assigned_to"`
	Priority   *Priority     `json:"priority"`
}

func (p TicketPatch) Empty() bool {
	return p.Status == nil && p.AssignedTo == nil && p.Priority == nil
}

func (p TicketPatch) Validate() error {
	const op = "model.TicketPatch"

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

// Comment is a note attached to a ticket or a task.
type Comment struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"-"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidateComment(op, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return failure.Validation(op, "Comment cannot be empty")
	}

	return nil
}
