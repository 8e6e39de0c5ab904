package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/A-ndrey/spdesk/internal/middleware"
	"github.com/A-ndrey/spdesk/internal/model"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	FrontendURL   string
	BodyLimit     int64
	RateLimit     int
	AuthRateLimit int
	SessionTTL    time.Duration
	Version       string
}

// Deps lists the collaborators behind the API. Every field is required.
type Deps struct {
	Accounts   Accounts
	Sessions   middleware.SessionValidator
	Tickets    TicketStore
	Tasks      TaskStore
	Absences   AbsenceStore
	News       NewsStore
	Blog       BlogStore
	Plans      PlanStore
	Schedules  ScheduleStore
	Events     EventStore
	Services   ServiceStore
	Statistics StatisticsStore
}

type Server struct {
	logger *slog.Logger
	deps   Deps
	opts   Options
	now    func() time.Time
}

func New(logger *slog.Logger, deps Deps, opts Options) *Server {
	return &Server{
		logger: logger,
		deps:   deps,
		opts:   opts,
		now:    time.Now,
	}
}

var (
	elevated   = []model.Role{model.RoleTeam, model.RoleManagement}
	management = []model.Role{model.RoleManagement}
)

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.opts.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.RequestSize(s.opts.BodyLimit))

	if s.opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Group(func(r chi.Router) {
			if s.opts.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(s.opts.AuthRateLimit, time.Minute))
			}
			r.Post("/auth/login", s.login)
			r.Post("/auth/logout", s.logout)
			r.Post("/auth/register", s.register)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(s.deps.Sessions, s.writeError))

			r.Get("/auth/me", s.me)
			r.Post("/auth/change-password", s.changePassword)
			r.Put("/auth/profile", s.updateProfile)
			r.Post("/auth/profile/upload", s.uploadProfile)
			r.Post("/auth/2fa/setup", s.setupTOTP)
			r.Post("/auth/2fa/verify", s.verifyTOTP)
			r.Post("/auth/2fa/disable", s.disableTOTP)

			r.Post("/tickets", s.createTicket)
			r.Get("/tickets/my", s.myTickets)
			r.Get("/tickets/{id}", s.getTicket)
			r.Post("/tickets/{id}/comments", s.addTicketComment)
			r.Get("/tickets/{id}/comments", s.listTicketComments)

			r.Get("/services/my", s.myServices)
			r.Get("/services/statistics", s.serviceStatistics)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(s.writeError, elevated...))

				r.Get("/tickets/all", s.allTickets)
				r.Put("/tickets/{id}", s.updateTicket)

				r.Post("/tasks", s.createTask)
				r.Get("/tasks", s.listTasks)
				r.Get("/tasks/my", s.myTasks)
				r.Put("/tasks/{id}", s.updateTask)
				r.Post("/tasks/{id}/comments", s.addTaskComment)
				r.Get("/tasks/{id}/comments", s.listTaskComments)

				r.Post("/absences", s.createAbsence)
				r.Get("/absences", s.listAbsences)
				r.Put("/absences/{id}", s.updateAbsence)

				r.Post("/news", s.createNews)
				r.Get("/news", s.listNews)
				r.Put("/news/{id}", s.updateNews)
				r.Delete("/news/{id}", s.deleteNews)

				r.Post("/blog", s.createBlogPost)
				r.Get("/blog", s.listBlogPosts)
				r.Put("/blog/{id}", s.updateBlogPost)
				r.Delete("/blog/{id}", s.deleteBlogPost)

				r.Get("/members", s.listMembers)

				r.Get("/statistics", s.statistics)

				r.Post("/plans", s.createPlan)
				r.Get("/plans", s.listPlans)
				r.Put("/plans/{id}", s.updatePlan)
				r.Delete("/plans/{id}", s.deletePlan)

				r.Post("/schedules", s.createSchedule)
				r.Get("/schedules", s.listSchedules)

				r.Post("/calendar", s.createEvent)
				r.Get("/calendar", s.listEvents)

				r.Post("/services", s.createService)
				r.Get("/services/all", s.allServices)
				r.Put("/services/{id}", s.updateService)
				r.Delete("/services/{id}", s.deleteService)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(s.writeError, management...))

				r.Post("/members", s.createMember)
				r.Put("/members/{id}", s.updateMember)
				r.Delete("/members/{id}", s.deleteMember)
			})
		})
	})

	return middleware.Attach(r, middleware.RequestID(), middleware.Logging(s.logger))
}

func (s *Server) Run(ctx context.Context, addr string) {
	srv := http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(err.Error())
		}
	}()

	<-ctx.Done()

	timeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(timeout); err != nil {
		s.logger.Error(err.Error())
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "spdesk",
		"version": s.opts.Version,
	})
}
