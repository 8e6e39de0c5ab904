package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/rs/xid"

	"github.com/A-ndrey/spdesk/internal/auth/token"
	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/model"
)

const (
	SessionCookie   = "__Secure-SP-Session"
	RequestIDHeader = "X-Request-Id"
)

var (
	ErrMissingCookie = failure.Auth("middleware.Session", "Missing authentication cookie")
	ErrAccessDenied  = failure.Forbidden("middleware.RequireRole", "Access denied")
)

type SessionValidator interface {
	Validate(tokenString string) (token.Claims, error)
}

// ErrorWriter renders err as the response. It is supplied by the server so
// middleware failures share the handlers' envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type Link func(http.Handler) http.Handler

func Attach(handler http.Handler, middlewares ...Link) http.Handler {
	m := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		m = middlewares[i](m)
	}
	return m
}

type ctxKey int

const (
	claimsKey ctxKey = iota
	requestIDKey
)

func WithClaims(ctx context.Context, claims token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func RequestID() Link {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := xid.New().String()
			w.Header().Set(RequestIDHeader, id)

			handler.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func Logging(logger *slog.Logger) Link {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			handler.ServeHTTP(rec, r)

			logger.Info("",
				slog.String("method", r.Method),
				slog.String("path", r.URL.EscapedPath()),
				slog.Int("status", rec.status),
				slog.Duration("dur", time.Since(start)),
				slog.String("request_id", RequestIDFrom(r.Context())),
			)
		})
	}
}

// Session authenticates the request from the session cookie and stores the
// claims in the request context.
func Session(v SessionValidator, onError ErrorWriter) Link {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				onError(w, r, ErrMissingCookie)
				return
			}

			claims, err := v.Validate(cookie.Value)
			if err != nil {
				onError(w, r, err)
				return
			}

			handler.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets the request through only when the session role is one of
// roles. It must run after Session.
func RequireRole(onError ErrorWriter, roles ...model.Role) Link {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok || !slices.Contains(roles, claims.Role) {
				onError(w, r, ErrAccessDenied)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}
