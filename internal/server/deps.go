package server

import (
	"context"
	"time"

	"github.com/A-ndrey/spdesk/internal/auth"
	"github.com/A-ndrey/spdesk/internal/model"
)

type Accounts interface {
	Register(ctx context.Context, req auth.Registration) (model.User, error)
	Login(ctx context.Context, email, password, code string) (model.User, string, error)
	Me(ctx context.Context, userID string) (model.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	UpdateProfile(ctx context.Context, userID string, req auth.ProfileUpdate) (model.User, error)
	StoreProfilePicture(ctx context.Context, userID, contentType string, data []byte) (string, error)
	SetupTOTP(ctx context.Context, userID string) (auth.TOTPSetup, error)
	EnableTOTP(ctx context.Context, userID, code string) error
	DisableTOTP(ctx context.Context, userID, password string) error

	ListMembers(ctx context.Context) ([]model.Member, error)
	CreateMember(ctx context.Context, req auth.NewMember) (model.User, error)
	UpdateMember(ctx context.Context, memberID string, req auth.MemberPatch) error
	DeleteMember(ctx context.Context, callerID, memberID string) error
}

type TicketStore interface {
	Create(ctx context.Context, userID string, in model.NewTicket) (model.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]model.Ticket, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	Get(ctx context.Context, ticketID string) (model.Ticket, error)
	Update(ctx context.Context, ticketID string, patch model.TicketPatch) error
	AddComment(ctx context.Context, ticketID, userID, comment string) (model.Comment, error)
	ListComments(ctx context.Context, ticketID string) ([]model.Comment, error)
}

type TaskStore interface {
	Create(ctx context.Context, createdBy string, in model.NewTask) (model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	ListMine(ctx context.Context, userID string) ([]model.Task, error)
	Get(ctx context.Context, taskID string) (model.Task, error)
	Update(ctx context.Context, taskID string, patch model.TaskPatch) error
	AddComment(ctx context.Context, taskID, userID, comment string) (model.Comment, error)
	ListComments(ctx context.Context, taskID string) ([]model.Comment, error)
}

type AbsenceStore interface {
	Create(ctx context.Context, userID string, in model.NewAbsence, start, end time.Time, status model.AbsenceStatus) (model.Absence, error)
	RejectExpired(ctx context.Context, at time.Time) (int64, error)
	List(ctx context.Context) ([]model.Absence, error)
	UpdateStatus(ctx context.Context, absenceID string, status model.AbsenceStatus, approvedBy string) error
}

type NewsStore interface {
	Create(ctx context.Context, authorID string, in model.NewNews) (model.News, error)
	List(ctx context.Context) ([]model.News, error)
	Update(ctx context.Context, newsID string, patch model.NewsPatch) error
	Delete(ctx context.Context, newsID string) error
}

type BlogStore interface {
	Create(ctx context.Context, authorID string, in model.NewBlogPost) (model.BlogPost, error)
	List(ctx context.Context) ([]model.BlogPost, error)
	Update(ctx context.Context, postID string, patch model.BlogPatch) error
	Delete(ctx context.Context, postID string) error
}

type PlanStore interface {
	Create(ctx context.Context, createdBy string, in model.NewPlan) (model.Plan, error)
	List(ctx context.Context) ([]model.Plan, error)
	Update(ctx context.Context, planID string, patch model.PlanPatch) error
	Delete(ctx context.Context, planID string) error
}

type ScheduleStore interface {
	Create(ctx context.Context, createdBy string, in model.NewSchedule) (model.Schedule, error)
	List(ctx context.Context) ([]model.Schedule, error)
}

type EventStore interface {
	Create(ctx context.Context, createdBy string, in model.NewEvent) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
}

type ServiceStore interface {
	Create(ctx context.Context, createdBy string, in model.NewService) (model.Service, error)
	ListAll(ctx context.Context) ([]model.Service, error)
	ListByUser(ctx context.Context, userID string) ([]model.Service, error)
	Update(ctx context.Context, serviceID string, patch model.ServicePatch) error
	Delete(ctx context.Context, serviceID string) error
	Statistics(ctx context.Context, userID string) (model.ServiceStatistics, error)
}

type StatisticsStore interface {
	Collect(ctx context.Context, at time.Time) (model.Statistics, error)
}
