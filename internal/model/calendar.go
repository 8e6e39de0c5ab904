package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

const typeOther = "other"

type Schedule struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	ScheduleType  string    `json:"schedule_type"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

type NewSchedule struct {
	UserID       string  `json:"user_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	ScheduleType string  `json:"schedule_type"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
}

func (s NewSchedule) Normalize() (NewSchedule, error) {
	const op = "model.NewSchedule"

	switch {
	case strings.TrimSpace(s.UserID) == "":
		return NewSchedule{}, failure.Validation(op, "User ID is required")
	case strings.TrimSpace(s.Title) == "":
		return NewSchedule{}, failure.Validation(op, "Title is required")
	case s.StartTime == "" || s.EndTime == "":
		return NewSchedule{}, failure.Validation(op, "Start and end time are required")
	}

	if s.ScheduleType == "" {
		s.ScheduleType = typeOther
	}

	return s, nil
}

type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	EventType     string    `json:"event_type"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	AllDay        bool      `json:"all_day"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

type NewEvent struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventType   string  `json:"event_type"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	AllDay      bool    `json:"all_day"`
}

func (e NewEvent) Normalize() (NewEvent, error) {
	const op = "model.NewEvent"

	if strings.TrimSpace(e.Title) == "" {
		return NewEvent{}, failure.Validation(op, "Title is required")
	}
	if e.StartDate == "" {
		return NewEvent{}, failure.Validation(op, "Start date is required")
	}

	if e.EventType == "" {
		e.EventType = typeOther
	}

	return e, nil
}
