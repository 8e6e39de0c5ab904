package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

type Task struct {
	db       *sql.DB
	comments comments
}

func NewTask(db *sql.DB) *Task {
	return &Task{
		db:       db,
		comments: comments{db: db, table: "task_comments", parent: "task_id"},
	}
}

// Create writes the task and its assignment rows in one transaction.
func (t *Task) Create(ctx context.Context, createdBy string, in model.NewTask) (model.Task, error) {
	ts := now()
	task := model.Task{
		ID:          newID(),
		Title:       in.Title,
		Description: in.Description,
		CreatedBy:   createdBy,
		Priority:    in.Priority,
		Status:      model.TaskPending,
		DueDate:     in.DueDate,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	err := WithTx(ctx, t.db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			"insert into tasks (id, title, description, created_by, priority, status, due_date, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			task.ID, task.Title, nullable(task.Description), task.CreatedBy, task.Priority, task.Status, nullable(task.DueDate), task.CreatedAt, task.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("can't insert task: %w", err)
		}

		seen := make(map[string]struct{}, len(in.AssignedTo))
		for _, userID := range in.AssignedTo {
			if _, ok := seen[userID]; ok {
				continue
			}
			seen[userID] = struct{}{}

			_, err := tx.ExecContext(ctx, "insert into task_assignments (task_id, user_id, assigned_at) values (?, ?, ?)", task.ID, userID, ts)
			if err != nil {
				return fmt.Errorf("can't assign task: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return model.Task{}, err
	}

	return t.Get(ctx, task.ID)
}

func taskSelect() sq.SelectBuilder {
	return sq.Select(
		"t.id", "t.title", "t.description", "t.created_by", "u.name", "t.priority",
		"t.status", "t.due_date", "t.completed_at", "t.created_at", "t.updated_at",
	).From("tasks t").Join("users u on u.id = t.created_by")
}

func (t *Task) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	b := taskSelect()
	if filter.Status != nil {
		b = b.Where(sq.Eq{"t.status": string(*filter.Status)})
	}
	if filter.AssignedTo != nil {
		b = b.Where("t.id in (select task_id from task_assignments where user_id = ?)", *filter.AssignedTo)
	}

	return t.query(ctx, b.OrderBy("t.created_at desc"))
}

func (t *Task) ListMine(ctx context.Context, userID string) ([]model.Task, error) {
	return t.List(ctx, model.TaskFilter{AssignedTo: &userID})
}

func (t *Task) Get(ctx context.Context, taskID string) (model.Task, error) {
	tasks, err := t.query(ctx, taskSelect().Where(sq.Eq{"t.id": taskID}))
	if err != nil {
		return model.Task{}, err
	}
	if len(tasks) == 0 {
		return model.Task{}, ErrNotFound
	}

	return tasks[0], nil
}

func (t *Task) query(ctx context.Context, b sq.SelectBuilder) ([]model.Task, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}

	tasks, err := t.scanTasks(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	// assignments are loaded after the task rows are closed; the pool holds
	// a single connection
	if err := t.attachAssignees(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (t *Task) scanTasks(ctx context.Context, query string, args []any) ([]model.Task, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			task        model.Task
			description sql.NullString
			dueDate     sql.NullString
			completedAt sql.NullTime
		)
		err := rows.Scan(&task.ID, &task.Title, &description, &task.CreatedBy, &task.CreatedByName, &task.Priority,
			&task.Status, &dueDate, &completedAt, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, err
		}

		task.Description = stringPtr(description)
		task.DueDate = stringPtr(dueDate)
		task.CompletedAt = timePtr(completedAt)
		task.AssignedUsers = []model.AssignedUser{}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (t *Task) attachAssignees(ctx context.Context, tasks []model.Task) error {
	ids := make([]string, len(tasks))
	index := make(map[string]int, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
		index[task.ID] = i
	}

	query, args, err := sq.Select("ta.task_id", "u.id", "u.name").
		From("task_assignments ta").
		Join("users u on u.id = ta.user_id").
		Where(sq.Eq{"ta.task_id": ids}).
		OrderBy("ta.assigned_at asc").
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID string
			user   model.AssignedUser
		)
		if err := rows.Scan(&taskID, &user.ID, &user.Name); err != nil {
			return err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].AssignedUsers = append(tasks[i].AssignedUsers, user)
		}
	}

	return rows.Err()
}

// Update applies patch. Completing a task stamps completed_at.
func (t *Task) Update(ctx context.Context, taskID string, patch model.TaskPatch) error {
	ts := now()

	b := sq.Update("tasks")
	if patch.Status != nil {
		b = b.Set("status", string(*patch.Status))
		if *patch.Status == model.TaskCompleted {
			b = b.Set("completed_at", ts)
		}
	}
	if patch.Priority != nil {
		b = b.Set("priority", string(*patch.Priority))
	}
	if patch.DueDate != nil {
		b = b.Set("due_date", *patch.DueDate)
	}

	return execUpdate(ctx, t.db, b.Set("updated_at", ts).Where(sq.Eq{"id": taskID}))
}

func (t *Task) AddComment(ctx context.Context, taskID, userID, comment string) (model.Comment, error) {
	return t.comments.add(ctx, taskID, userID, comment)
}

func (t *Task) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	return t.comments.list(ctx, taskID)
}
