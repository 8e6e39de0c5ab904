package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

const (
	ServiceActive    = "active"
	ServiceCompleted = "completed"
	ServicePaused    = "paused"
	ServiceCancelled = "cancelled"
)

func validServiceStatus(s string) bool {
	switch s {
	case ServiceActive, ServiceCompleted, ServicePaused, ServiceCancelled:
		return true
	default:
		return false
	}
}

// Service is paid work delivered to a client account.
type Service struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	UserName      *string   `json:"user_name"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ServiceType   string    `json:"service_type"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Progress      int       `json:"progress"`
	Notes         *string   `json:"notes"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName *string   `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type NewService struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ServiceType string  `json:"service_type"`
	Price       float64 `json:"price"`
	Status      *string `json:"status"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Progress    *int    `json:"progress"`
	Notes       *string `json:"notes"`
}

func (s NewService) Normalize() (NewService, error) {
	const op = "model.NewService"

	switch {
	case strings.TrimSpace(s.UserID) == "":
		return NewService{}, failure.Validation(op, "User ID is required")
	case strings.TrimSpace(s.Name) == "":
		return NewService{}, failure.Validation(op, "Name is required")
	case strings.TrimSpace(s.Description) == "":
		return NewService{}, failure.Validation(op, "Description is required")
	case strings.TrimSpace(s.ServiceType) == "":
		return NewService{}, failure.Validation(op, "Service type is required")
	case strings.TrimSpace(s.StartDate) == "":
		return NewService{}, failure.Validation(op, "Start date is required")
	case s.Price < 0:
		return NewService{}, failure.Validation(op, "Price cannot be negative")
	}

	if s.Status == nil {
		active := ServiceActive
		s.Status = &active
	}
	if !validServiceStatus(*s.Status) {
		return NewService{}, failure.Validation(op, "Invalid status")
	}

	if s.Progress == nil {
		zero := 0
		s.Progress = &zero
	}
	if err := validateProgress(op, *s.Progress); err != nil {
		return NewService{}, err
	}

	return s, nil
}

type ServicePatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ServiceType *string  `json:"service_type"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Progress    *int     `json:"progress"`
	Notes       *string  `json:"notes"`
}

func (p ServicePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.ServiceType == nil && p.Price == nil &&
		p.Status == nil && p.StartDate == nil && p.EndDate == nil && p.Progress == nil && p.Notes == nil
}

func (p ServicePatch) Validate() error {
	const op = "model.ServicePatch"

	if p.Empty() {
		return failure.Validation(op, "No updates provided")
	}
	if p.Status != nil && !validServiceStatus(*p.Status) {
		return failure.Validation(op, "Invalid status")
	}
	if p.Price != nil && *p.Price < 0 {
		return failure.Validation(op, "Price cannot be negative")
	}
	if p.Progress != nil {
		return validateProgress(op, *p.Progress)
	}

	return nil
}

func validateProgress(op string, progress int) error {
	if progress < 0 || progress > 100 {
		return failure.Validation(op, "Progress must be between 0 and 100")
	}

	return nil
}

type ServiceStatistics struct {
	TotalServices     int64   `json:"total_services"`
	ActiveServices    int64   `json:"active_services"`
	CompletedServices int64   `json:"completed_services"`
	PausedServices    int64   `json:"paused_services"`
	TotalValue        float64 `json:"total_value"`
	ActiveValue       float64 `json:"active_value"`
}
