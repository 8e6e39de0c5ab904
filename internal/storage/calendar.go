package storage

import (
	"context"
	"database/sql"

	"github.com/A-ndrey/spdesk/internal/model"
)

type Schedule struct {
	db DBTX
}

func NewSchedule(db DBTX) *Schedule {
	return &Schedule{db: db}
}

func (s *Schedule) Create(ctx context.Context, createdBy string, in model.NewSchedule) (model.Schedule, error) {
	ts := now()
	id := newID()

	_, err := s.db.ExecContext(ctx,
		"insert into schedules (id, user_id, title, description, schedule_type, start_time, end_time, created_by, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, in.UserID, in.Title, nullable(in.Description), in.ScheduleType, in.StartTime, in.EndTime, createdBy, ts, ts,
	)
	if err != nil {
		return model.Schedule{}, err
	}

	schedules, err := s.list(ctx, " where s.id = ?", id)
	if err != nil {
		return model.Schedule{}, err
	}
	if len(schedules) == 0 {
		return model.Schedule{}, ErrNotFound
	}

	return schedules[0], nil
}

func (s *Schedule) List(ctx context.Context) ([]model.Schedule, error) {
	return s.list(ctx, " order by s.start_time asc")
}

func (s *Schedule) list(ctx context.Context, tail string, args ...any) ([]model.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `select s.id, s.user_id, u.name, s.title, s.description, s.schedule_type,
		s.start_time, s.end_time, s.created_by, c.name, s.created_at
		from schedules s
		join users u on u.id = s.user_id
		join users c on c.id = s.created_by`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []model.Schedule{}
	for rows.Next() {
		var (
			sc          model.Schedule
			description sql.NullString
		)
		err := rows.Scan(&sc.ID, &sc.UserID, &sc.UserName, &sc.Title, &description, &sc.ScheduleType,
			&sc.StartTime, &sc.EndTime, &sc.CreatedBy, &sc.CreatedByName, &sc.CreatedAt)
		if err != nil {
			return nil, err
		}
		sc.Description = stringPtr(description)
		schedules = append(schedules, sc)
	}

	return schedules, rows.Err()
}

type Event struct {
	db DBTX
}

func NewEvent(db DBTX) *Event {
	return &Event{db: db}
}

func (e *Event) Create(ctx context.Context, createdBy string, in model.NewEvent) (model.Event, error) {
	ts := now()
	id := newID()

	_, err := e.db.ExecContext(ctx,
		"insert into calendar_events (id, title, description, event_type, start_date, end_date, all_day, created_by, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, in.Title, nullable(in.Description), in.EventType, in.StartDate, nullable(in.EndDate), in.AllDay, createdBy, ts, ts,
	)
	if err != nil {
		return model.Event{}, err
	}

	events, err := e.list(ctx, " where e.id = ?", id)
	if err != nil {
		return model.Event{}, err
	}
	if len(events) == 0 {
		return model.Event{}, ErrNotFound
	}

	return events[0], nil
}

func (e *Event) List(ctx context.Context) ([]model.Event, error) {
	return e.list(ctx, " order by e.start_date asc")
}

func (e *Event) list(ctx context.Context, tail string, args ...any) ([]model.Event, error) {
	rows, err := e.db.QueryContext(ctx, `select e.id, e.title, e.description, e.event_type, e.start_date, e.end_date,
		e.all_day, e.created_by, u.name, e.created_at
		from calendar_events e join users u on u.id = e.created_by`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var (
			ev          model.Event
			description sql.NullString
			endDate     sql.NullString
		)
		err := rows.Scan(&ev.ID, &ev.Title, &description, &ev.EventType, &ev.StartDate, &endDate,
			&ev.AllDay, &ev.CreatedBy, &ev.CreatedByName, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}
		ev.Description = stringPtr(description)
		ev.EndDate = stringPtr(endDate)
		events = append(events, ev)
	}

	return events, rows.Err()
}
