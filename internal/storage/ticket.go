package storage

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

const ticketColumns = "id, user_id, title, description, priority, status, assigned_to, created_at, updated_at, resolved_at"

type Ticket struct {
	db       DBTX
	comments comments
}

func NewTicket(db DBTX) *Ticket {
	return &Ticket{
		db:       db,
		comments: comments{db: db, table: "ticket_comments", parent: "ticket_id"},
	}
}

func (t *Ticket) Create(ctx context.Context, userID string, in model.NewTicket) (model.Ticket, error) {
	ts := now()
	tk := model.Ticket{
		ID:          newID(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      model.TicketOpen,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := t.db.ExecContext(ctx,
		"insert into tickets (id, user_id, title, description, priority, status, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?)",
		tk.ID, tk.UserID, tk.Title, tk.Description, tk.Priority, tk.Status, tk.CreatedAt, tk.UpdatedAt,
	)
	if err != nil {
		return model.Ticket{}, err
	}

	return tk, nil
}

func (t *Ticket) ListByUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	return t.list(ctx, "select "+ticketColumns+" from tickets where user_id = ? order by created_at desc", userID)
}

func (t *Ticket) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return t.list(ctx, "select "+ticketColumns+" from tickets order by created_at desc")
}

func (t *Ticket) list(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		tk, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, tk)
	}

	return tickets, rows.Err()
}

func (t *Ticket) Get(ctx context.Context, ticketID string) (model.Ticket, error) {
	tk, err := scanTicket(t.db.QueryRowContext(ctx, "select "+ticketColumns+" from tickets where id = ?", ticketID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}

	return tk, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (model.Ticket, error) {
	var (
		tk         model.Ticket
		assignedTo sql.NullString
		resolvedAt sql.NullTime
	)

	err := row.Scan(&tk.ID, &tk.UserID, &tk.Title, &tk.Description, &tk.Priority, &tk.Status,
		&assignedTo, &tk.CreatedAt, &tk.UpdatedAt, &resolvedAt)
	if err != nil {
		return model.Ticket{}, err
	}

	tk.AssignedTo = stringPtr(assignedTo)
	tk.ResolvedAt = timePtr(resolvedAt)

	return tk, nil
}

// Update applies patch. Moving a ticket to resolved stamps resolved_at.
func (t *Ticket) Update(ctx context.Context, ticketID string, patch model.TicketPatch) error {
	ts := now()

	b := sq.Update("tickets")
	if patch.Status != nil {
		b = b.Set("status", string(*patch.Status))
		if *patch.Status == model.TicketResolved {
			b = b.Set("resolved_at", ts)
		}
	}
	if patch.AssignedTo != nil {
		// an empty assignee unassigns the ticket
		var assignee any
		if *patch.AssignedTo != "" {
			assignee = *patch.AssignedTo
		}
		b = b.Set("assigned_to", assignee)
	}
	if patch.Priority != nil {
		b = b.Set("priority", string(*patch.Priority))
	}

	return execUpdate(ctx, t.db, b.Set("updated_at", ts).Where(sq.Eq{"id": ticketID}))
}

func (t *Ticket) AddComment(ctx context.Context, ticketID, userID, comment string) (model.Comment, error) {
	return t.comments.add(ctx, ticketID, userID, comment)
}

func (t *Ticket) ListComments(ctx context.Context, ticketID string) ([]model.Comment, error) {
	return t.comments.list(ctx, ticketID)
}
