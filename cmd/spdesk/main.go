package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/A-ndrey/spdesk/internal/auth"
	"github.com/A-ndrey/spdesk/internal/auth/mfa/totp"
	"github.com/A-ndrey/spdesk/internal/auth/password"
	"github.com/A-ndrey/spdesk/internal/auth/token"
	"github.com/A-ndrey/spdesk/internal/blob"
	"github.com/A-ndrey/spdesk/internal/driver"
	"github.com/A-ndrey/spdesk/internal/migrations"
	"github.com/A-ndrey/spdesk/internal/server"
	"github.com/A-ndrey/spdesk/internal/storage"
)

var version = "dev"

func main() {
	cfg := must(readConfig("/etc/spdesk/", "."))

	logger := initLogger(cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db := initDB(ctx, cfg)
	defer db.Close()

	hasher := must(password.NewHasher(password.DefaultParams))
	jwtSvc := token.NewJWTService([]byte(cfg.JWT.Secret), cfg.JWT.TTL)

	userService := must(auth.NewUserService(
		logger,
		storage.NewUser(db),
		hasher,
		jwtSvc,
		totp.NewConfig(cfg.TOTP.Issuer, nil),
		initBlobs(ctx, cfg),
		cfg.Registration.Secret,
	))

	absences := storage.NewAbsence(db)
	go sweepAbsences(ctx, logger, absences, cfg.Absences.SweepInterval)

	srv := server.New(logger, server.Deps{
		Accounts:   userService,
		Sessions:   jwtSvc,
		Tickets:    storage.NewTicket(db),
		Tasks:      storage.NewTask(db),
		Absences:   absences,
		News:       storage.NewNews(db),
		Blog:       storage.NewBlog(db),
		Plans:      storage.NewPlan(db),
		Schedules:  storage.NewSchedule(db),
		Events:     storage.NewEvent(db),
		Services:   storage.NewService(db),
		Statistics: storage.NewStatistics(db),
	}, server.Options{
		FrontendURL:   cfg.Frontend.URL,
		BodyLimit:     cfg.HTTP.BodyLimit,
		RateLimit:     cfg.HTTP.RateLimit,
		AuthRateLimit: cfg.HTTP.AuthRateLimit,
		SessionTTL:    jwtSvc.TTL(),
		Version:       version,
	})

	srv.Run(ctx, net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
}

func must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}

	return val
}

func initLogger(env string) *slog.Logger {
	if env == "dev" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func initDB(ctx context.Context, cfg Config) *sql.DB {
	db := must(driver.NewSQLite(cfg.Database.URL))

	if err := migrations.Migrate(ctx, db); err != nil {
		panic(err)
	}

	return db
}

func initBlobs(ctx context.Context, cfg Config) blob.Store {
	if !cfg.Storage.S3.Enabled() {
		return blob.DataURLStore{}
	}

	return must(blob.NewS3Store(ctx, cfg.Storage.S3))
}

type expiredRejecter interface {
	RejectExpired(ctx context.Context, at time.Time) (int64, error)
}

// sweepAbsences rejects pending absences whose end date has passed until ctx
// is done.
func sweepAbsences(ctx context.Context, logger *slog.Logger, absences expiredRejecter, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case at := <-ticker.C:
			n, err := absences.RejectExpired(ctx, at.UTC())
			if err != nil {
				logger.Error("can't reject expired absences", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("rejected expired absences", slog.Int64("count", n))
			}
		}
	}
}
