package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

const serviceSelect = `select s.id, s.user_id, u.name, s.name, s.description, s.service_type, s.price, s.status,
	s.start_date, s.end_date, s.progress, s.notes, s.created_by, c.name, s.created_at, s.updated_at
	from services s
	left join users u on u.id = s.user_id
	left join users c on c.id = s.created_by`

type Service struct {
	db DBTX
}

func NewService(db DBTX) *Service {
	return &Service{db: db}
}

// Create stores a service. in must already be normalized.
func (s *Service) Create(ctx context.Context, createdBy string, in model.NewService) (model.Service, error) {
	ts := now()
	id := newID()

	_, err := s.db.ExecContext(ctx,
		`insert into services (id, user_id, name, description, service_type, price, status, start_date, end_date, progress, notes, created_by, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.UserID, in.Name, in.Description, in.ServiceType, in.Price, *in.Status, in.StartDate, nullable(in.EndDate),
		*in.Progress, nullable(in.Notes), createdBy, ts, ts,
	)
	if err != nil {
		return model.Service{}, err
	}

	services, err := s.list(ctx, serviceSelect+" where s.id = ?", id)
	if err != nil {
		return model.Service{}, err
	}
	if len(services) == 0 {
		return model.Service{}, ErrNotFound
	}

	return services[0], nil
}

func (s *Service) ListAll(ctx context.Context) ([]model.Service, error) {
	return s.list(ctx, serviceSelect+" order by s.created_at desc")
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]model.Service, error) {
	return s.list(ctx, serviceSelect+" where s.user_id = ? order by s.created_at desc", userID)
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]model.Service, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []model.Service{}
	for rows.Next() {
		var (
			svc           model.Service
			userName      sql.NullString
			endDate       sql.NullString
			notes         sql.NullString
			createdByName sql.NullString
		)
		err := rows.Scan(&svc.ID, &svc.UserID, &userName, &svc.Name, &svc.Description, &svc.ServiceType, &svc.Price, &svc.Status,
			&svc.StartDate, &endDate, &svc.Progress, &notes, &svc.CreatedBy, &createdByName, &svc.CreatedAt, &svc.UpdatedAt)
		if err != nil {
			return nil, err
		}

		svc.UserName = stringPtr(userName)
		svc.EndDate = stringPtr(endDate)
		svc.Notes = stringPtr(notes)
		svc.CreatedByName = stringPtr(createdByName)
		services = append(services, svc)
	}

	return services, rows.Err()
}

func (s *Service) Update(ctx context.Context, serviceID string, patch model.ServicePatch) error {
	b := sq.Update("services")
	if patch.Name != nil {
		b = b.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.ServiceType != nil {
		b = b.Set("service_type", *patch.ServiceType)
	}
	if patch.Price != nil {
		b = b.Set("price", *patch.Price)
	}
	if patch.Status != nil {
		b = b.Set("status", *patch.Status)
	}
	if patch.StartDate != nil {
		b = b.Set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		b = b.Set("end_date", *patch.EndDate)
	}
	if patch.Progress != nil {
		b = b.Set("progress", *patch.Progress)
	}
	if patch.Notes != nil {
		b = b.Set("notes", *patch.Notes)
	}

	return execUpdate(ctx, s.db, b.Set("updated_at", now()).Where(sq.Eq{"id": serviceID}))
}

func (s *Service) Delete(ctx context.Context, serviceID string) error {
	return execUpdate(ctx, s.db, sq.Delete("services").Where(sq.Eq{"id": serviceID}))
}

func (s *Service) Statistics(ctx context.Context, userID string) (model.ServiceStatistics, error) {
	var st model.ServiceStatistics

	err := s.db.QueryRowContext(ctx, `select
		count(*),
		coalesce(sum(case when status = 'active' then 1 else 0 end), 0),
		coalesce(sum(case when status = 'completed' then 1 else 0 end), 0),
		coalesce(sum(case when status = 'paused' then 1 else 0 end), 0),
		coalesce(sum(price), 0),
		coalesce(sum(case when status = 'active' then price else 0 end), 0)
		from services where user_id = ?`, userID,
	).Scan(&st.TotalServices, &st.ActiveServices, &st.CompletedServices, &st.PausedServices, &st.TotalValue, &st.ActiveValue)
	if err != nil {
		return model.ServiceStatistics{}, err
	}

	return st, nil
}
