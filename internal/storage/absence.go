package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/A-ndrey/spdesk/internal/model"
)

type Absence struct {
	db DBTX
}

func NewAbsence(db DBTX) *Absence {
	return &Absence{db: db}
}

func (a *Absence) Create(ctx context.Context, userID string, in model.NewAbsence, start, end time.Time, status model.AbsenceStatus) (model.Absence, error) {
	ts := now()
	abs := model.Absence{
		ID:          newID(),
		UserID:      userID,
		Reason:      in.Reason,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := a.db.ExecContext(ctx,
		"insert into absences (id, user_id, reason, description, start_date, end_date, status, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		abs.ID, abs.UserID, abs.Reason, nullable(abs.Description), abs.StartDate, abs.EndDate, abs.Status, abs.CreatedAt, abs.UpdatedAt,
	)
	if err != nil {
		return model.Absence{}, err
	}

	err = a.db.QueryRowContext(ctx, "select name from users where id = ?", userID).Scan(&abs.UserName)
	if err != nil {
		return model.Absence{}, err
	}

	return abs, nil
}

// RejectExpired rejects pending absences that ended before now and returns
// how many were changed.
func (a *Absence) RejectExpired(ctx context.Context, at time.Time) (int64, error) {
	res, err := a.db.ExecContext(ctx,
		"update absences set status = ?, updated_at = ? where status = ? and end_date < ?",
		model.AbsenceRejected, now(), model.AbsencePending, at.UTC(),
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (a *Absence) List(ctx context.Context) ([]model.Absence, error) {
	rows, err := a.db.QueryContext(ctx, `select a.id, a.user_id, u.name, a.reason, a.description, a.start_date, a.end_date,
		a.status, a.approved_by, ap.name, a.created_at, a.updated_at
		from absences a
		join users u on u.id = a.user_id
		left join users ap on ap.id = a.approved_by
		order by a.created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences := []model.Absence{}
	for rows.Next() {
		var (
			abs            model.Absence
			description    sql.NullString
			approvedBy     sql.NullString
			approvedByName sql.NullString
		)
		err := rows.Scan(&abs.ID, &abs.UserID, &abs.UserName, &abs.Reason, &description, &abs.StartDate, &abs.EndDate,
			&abs.Status, &approvedBy, &approvedByName, &abs.CreatedAt, &abs.UpdatedAt)
		if err != nil {
			return nil, err
		}

		abs.Description = stringPtr(description)
		abs.ApprovedBy = stringPtr(approvedBy)
		abs.ApprovedByName = stringPtr(approvedByName)
		absences = append(absences, abs)
	}

	return absences, rows.Err()
}

func (a *Absence) UpdateStatus(ctx context.Context, absenceID string, status model.AbsenceStatus, approvedBy string) error {
	res, err := a.db.ExecContext(ctx,
		"update absences set status = ?, approved_by = ?, updated_at = ? where id = ?",
		status, approvedBy, now(), absenceID,
	)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
