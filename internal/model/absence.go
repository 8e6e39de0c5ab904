package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)

func (s AbsenceStatus) Valid() bool {
	switch s {
	case AbsencePending, AbsenceApproved, AbsenceRejected:
		return true
	default:
		return false
	}
}

type Absence struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	UserName       string        `json:"user_name"`
	Reason         string        `json:"reason"`
	Description    *string       `json:"description"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	Status         AbsenceStatus `json:"status"`
	ApprovedBy     *string       `json:"approved_by"`
	ApprovedByName *string       `json:"approved_by_name"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type NewAbsence struct {
	Reason      string  `json:"reason"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

const dateOnly = "2006-01-02"

// ParseAbsenceDate accepts RFC 3339 timestamps and plain dates. A plain end
// date covers the whole day, up to 23:59:59 UTC.
func ParseAbsenceDate(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	d, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, failure.Validation("model.ParseAbsenceDate", "Invalid date: "+s)
	}

	if end {
		d = d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}

	return d, nil
}

// Resolve validates a and returns its parsed bounds together with the status
// it starts in: approved when now falls inside the absence, pending otherwise.
func (a NewAbsence) Resolve(now time.Time) (time.Time, time.Time, AbsenceStatus, error) {
	const op = "model.NewAbsence"

	if strings.TrimSpace(a.Reason) == "" {
		return time.Time{}, time.Time{}, "", failure.Validation(op, "Reason is required")
	}

	start, err := ParseAbsenceDate(a.StartDate, false)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	end, err := ParseAbsenceDate(a.EndDate, true)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, "", failure.Validation(op, "End date must not be before start date")
	}

	status := AbsencePending
	if !now.Before(start) && !now.After(end) {
		status = AbsenceApproved
	}

	return start, end, status, nil
}
