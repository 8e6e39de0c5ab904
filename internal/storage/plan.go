package storage

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

const planSelect = `select p.id, p.title, p.description, p.category, p.priority, p.status, p.target_date, p.completed_at,
	p.created_by, u.name, p.created_at, p.updated_at
	from future_plans p join users u on u.id = p.created_by`

// planOrder ranks priorities from most to least pressing.
const planOrder = ` order by case p.priority
	when 'urgent' then 4 when 'high' then 3 when 'medium' then 2 when 'low' then 1 else 0 end desc,
	p.created_at desc`

type Plan struct {
	db DBTX
}

func NewPlan(db DBTX) *Plan {
	return &Plan{db: db}
}

// Create stores a plan. in must already be normalized.
func (p *Plan) Create(ctx context.Context, createdBy string, in model.NewPlan) (model.Plan, error) {
	ts := now()
	id := newID()

	_, err := p.db.ExecContext(ctx,
		"insert into future_plans (id, title, description, category, priority, status, target_date, created_by, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, in.Title, in.Description, in.Category, string(*in.Priority), in.Status, nullable(in.TargetDate), createdBy, ts, ts,
	)
	if err != nil {
		return model.Plan{}, err
	}

	return p.Get(ctx, id)
}

func (p *Plan) Get(ctx context.Context, planID string) (model.Plan, error) {
	plan, err := scanPlan(p.db.QueryRowContext(ctx, planSelect+" where p.id = ?", planID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Plan{}, ErrNotFound
	}

	return plan, err
}

func (p *Plan) List(ctx context.Context) ([]model.Plan, error) {
	rows, err := p.db.QueryContext(ctx, planSelect+planOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []model.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func scanPlan(row rowScanner) (model.Plan, error) {
	var (
		plan        model.Plan
		targetDate  sql.NullString
		completedAt sql.NullTime
	)

	err := row.Scan(&plan.ID, &plan.Title, &plan.Description, &plan.Category, &plan.Priority, &plan.Status,
		&targetDate, &completedAt, &plan.CreatedBy, &plan.CreatedByName, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return model.Plan{}, err
	}

	plan.TargetDate = stringPtr(targetDate)
	plan.CompletedAt = timePtr(completedAt)

	return plan, nil
}

func (p *Plan) Update(ctx context.Context, planID string, patch model.PlanPatch) error {
	ts := now()

	b := sq.Update("future_plans")
	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.Category != nil {
		b = b.Set("category", *patch.Category)
	}
	if patch.Priority != nil {
		b = b.Set("priority", string(*patch.Priority))
	}
	if patch.Status != nil {
		b = b.Set("status", *patch.Status)
		if *patch.Status == model.PlanCompleted {
			b = b.Set("completed_at", ts)
		}
	}
	if patch.TargetDate != nil {
		b = b.Set("target_date", *patch.TargetDate)
	}

	return execUpdate(ctx, p.db, b.Set("updated_at", ts).Where(sq.Eq{"id": planID}))
}

func (p *Plan) Delete(ctx context.Context, planID string) error {
	return execUpdate(ctx, p.db, sq.Delete("future_plans").Where(sq.Eq{"id": planID}))
}
