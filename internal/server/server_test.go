package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-ndrey/spdesk/internal/auth"
	"github.com/A-ndrey/spdesk/internal/auth/token"
	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/middleware"
	"github.com/A-ndrey/spdesk/internal/model"
	"github.com/A-ndrey/spdesk/internal/storage"
)

type fakeAccounts struct {
	Accounts

	user       model.User
	loginErr   error
	uploaded   []byte
	uploadType string
	deleted    string
}

func (f *fakeAccounts) Login(_ context.Context, _, _, _ string) (model.User, string, error) {
	if f.loginErr != nil {
		return model.User{}, "", f.loginErr
	}

	return f.user, "signed.jwt.token", nil
}

func (f *fakeAccounts) Me(_ context.Context, userID string) (model.User, error) {
	if userID != f.user.ID {
		return model.User{}, auth.ErrUserNotFound
	}

	return f.user, nil
}

func (f *fakeAccounts) StoreProfilePicture(_ context.Context, _, contentType string, data []byte) (string, error) {
	f.uploadType = contentType
	f.uploaded = data

	return "data:" + contentType + ";base64,", nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, _ string, req auth.ProfileUpdate) (model.User, error) {
	if req.Name != nil {
		f.user.Name = *req.Name
	}
	if req.ProfilePicture != nil {
		f.user.ProfilePicture = req.ProfilePicture
	}

	return f.user, nil
}

func (f *fakeAccounts) DeleteMember(_ context.Context, callerID, memberID string) error {
	if callerID == memberID {
		return failure.Validation("test", "You cannot delete your own account")
	}
	f.deleted = memberID

	return nil
}

type fakeTickets struct {
	TicketStore

	tickets  map[string]model.Ticket
	patched  *model.TicketPatch
	comments []model.Comment
}

func (f *fakeTickets) Create(_ context.Context, userID string, in model.NewTicket) (model.Ticket, error) {
	tk := model.Ticket{ID: "t-new", UserID: userID, Title: in.Title, Description: in.Description, Priority: in.Priority, Status: model.TicketOpen}
	f.tickets[tk.ID] = tk

	return tk, nil
}

func (f *fakeTickets) Get(_ context.Context, ticketID string) (model.Ticket, error) {
	tk, ok := f.tickets[ticketID]
	if !ok {
		return model.Ticket{}, storage.ErrNotFound
	}

	return tk, nil
}

func (f *fakeTickets) Update(_ context.Context, ticketID string, patch model.TicketPatch) error {
	if _, ok := f.tickets[ticketID]; !ok {
		return storage.ErrNotFound
	}
	f.patched = &patch

	return nil
}

func (f *fakeTickets) ListComments(context.Context, string) ([]model.Comment, error) {
	return f.comments, nil
}

type fakeTasks struct {
	TaskStore

	task    model.Task
	updated bool
	filter  model.TaskFilter
}

func (f *fakeTasks) Get(_ context.Context, taskID string) (model.Task, error) {
	if taskID != f.task.ID {
		return model.Task{}, storage.ErrNotFound
	}

	return f.task, nil
}

func (f *fakeTasks) List(_ context.Context, filter model.TaskFilter) ([]model.Task, error) {
	f.filter = filter
	return []model.Task{f.task}, nil
}

func (f *fakeTasks) Update(context.Context, string, model.TaskPatch) error {
	f.updated = true
	return nil
}

type fakeAbsences struct {
	AbsenceStore

	rejectedAt time.Time
	calls      []string
}

func (f *fakeAbsences) RejectExpired(_ context.Context, at time.Time) (int64, error) {
	f.rejectedAt = at
	f.calls = append(f.calls, "reject")

	return 1, nil
}

func (f *fakeAbsences) List(context.Context) ([]model.Absence, error) {
	f.calls = append(f.calls, "list")
	return []model.Absence{}, nil
}

type fakeServices struct {
	ServiceStore
}

func (fakeServices) Delete(_ context.Context, serviceID string) error {
	if serviceID != "s1" {
		return storage.ErrNotFound
	}

	return nil
}

type env struct {
	handler  http.Handler
	jwt      *token.JWTService
	accounts *fakeAccounts
	tickets  *fakeTickets
	tasks    *fakeTasks
	absences *fakeAbsences
	log      *bytes.Buffer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		jwt:      token.NewJWTService([]byte("test-secret"), time.Hour),
		accounts: &fakeAccounts{user: model.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: model.RoleUser}},
		tickets: &fakeTickets{tickets: map[string]model.Ticket{
			"t1": {ID: "t1", UserID: "u1", Title: "Mine"},
			"t2": {ID: "t2", UserID: "u9", Title: "Theirs"},
		}},
		tasks:    &fakeTasks{task: model.Task{ID: "k1", AssignedUsers: []model.AssignedUser{{ID: "m1", Name: "Mia"}}}},
		absences: &fakeAbsences{},
		log:      &bytes.Buffer{},
	}

	logger := slog.New(slog.NewTextHandler(e.log, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv := New(logger, Deps{
		Accounts: e.accounts,
		Sessions: e.jwt,
		Tickets:  e.tickets,
		Tasks:    e.tasks,
		Absences: e.absences,
		Services: fakeServices{},
	}, Options{
		FrontendURL:   "http://localhost:5173",
		BodyLimit:     1 << 20,
		RateLimit:     1000,
		AuthRateLimit: 1000,
		SessionTTL:    time.Hour,
		Version:       "test",
	})
	e.handler = srv.Handler()

	return e
}

func (e *env) cookie(t *testing.T, userID string, role model.Role) *http.Cookie {
	t.Helper()

	tok, err := e.jwt.Issue(e.jwt.NewClaims(model.User{ID: userID, Email: userID + "@example.com", Role: role}))
	require.NoError(t, err)

	return &http.Cookie{Name: middleware.SessionCookie, Value: tok}
}

func (e *env) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)

	return rec, out
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodGet, "/api/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "spdesk", body["service"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestLoginSetsCookie(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "x"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, rec.Body.String(), "signed.jwt.token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, middleware.SessionCookie, c.Name)
	assert.Equal(t, "signed.jwt.token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
}

func TestLoginTwoFactor(t *testing.T) {
	e := newEnv(t)

	e.accounts.loginErr = auth.ErrTwoFactorRequired
	rec, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["requires_2fa"])
	assert.Equal(t, "2FA code required", body["error"])

	e.accounts.loginErr = auth.ErrInvalidTOTPCode
	rec, body = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "totp_code": "1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, body["requires_2fa"])

	e.accounts.loginErr = auth.ErrInvalidCredentials
	rec, body = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", body["error"])
	assert.Nil(t, body["requires_2fa"])
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newEnv(t)

	rec, _ := e.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSessionRequired(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing authentication cookie", body["error"])

	rec, body = e.do(t, http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: middleware.SessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired session", body["error"])

	rec, body = e.do(t, http.MethodGet, "/api/auth/me", nil, e.cookie(t, "u1", model.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann", body["user"].(map[string]any)["name"])
}

func TestRoleGates(t *testing.T) {
	e := newEnv(t)
	client := e.cookie(t, "u1", model.RoleUser)

	for _, path := range []string{"/api/tickets/all", "/api/tasks", "/api/absences", "/api/statistics", "/api/members"} {
		rec, body := e.do(t, http.MethodGet, path, nil, client)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Equal(t, "Access denied", body["error"], path)
	}

	rec, _ := e.do(t, http.MethodDelete, "/api/members/u2", nil, e.cookie(t, "m1", model.RoleTeam))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = e.do(t, http.MethodDelete, "/api/members/u2", nil, e.cookie(t, "m1", model.RoleManagement))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2", e.accounts.deleted)

	rec, body := e.do(t, http.MethodDelete, "/api/members/m1", nil, e.cookie(t, "m1", model.RoleManagement))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You cannot delete your own account", body["error"])
}

func TestTicketAccess(t *testing.T) {
	e := newEnv(t)
	owner := e.cookie(t, "u1", model.RoleUser)

	rec, _ := e.do(t, http.MethodGet, "/api/tickets/t1", nil, owner)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := e.do(t, http.MethodGet, "/api/tickets/t2", nil, owner)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", body["error"])

	rec, _ = e.do(t, http.MethodGet, "/api/tickets/t2", nil, e.cookie(t, "m1", model.RoleTeam))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = e.do(t, http.MethodGet, "/api/tickets/nope", nil, owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Ticket not found", body["error"])

	rec, _ = e.do(t, http.MethodGet, "/api/tickets/t2/comments", nil, owner)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateTicketValidation(t *testing.T) {
	e := newEnv(t)
	owner := e.cookie(t, "u1", model.RoleUser)

	rec, body := e.do(t, http.MethodPost, "/api/tickets", map[string]string{"title": "x", "description": "y", "priority": "asap"}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid priority", body["error"])

	rec, body = e.do(t, http.MethodPost, "/api/tickets", map[string]string{"title": "x", "description": "y", "priority": "low"}, owner)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t-new", body["ticket_id"])
}

func TestUpdateTicket(t *testing.T) {
	e := newEnv(t)
	staff := e.cookie(t, "m1", model.RoleTeam)

	rec, body := e.do(t, http.MethodPut, "/api/tickets/t1", map[string]any{}, staff)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No updates provided", body["error"])

	rec, _ = e.do(t, http.MethodPut, "/api/tickets/t1", map[string]string{"status": "resolved"}, staff)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, e.tickets.patched)
	assert.Equal(t, model.TicketResolved, *e.tickets.patched.Status)

	rec, _ = e.do(t, http.MethodPut, "/api/tickets/zz", map[string]string{"status": "closed"}, staff)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTaskRequiresAssignee(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodPut, "/api/tasks/k1", map[string]string{"status": "completed"}, e.cookie(t, "m2", model.RoleTeam))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You are not assigned to this task", body["error"])
	assert.False(t, e.tasks.updated)

	rec, _ = e.do(t, http.MethodPut, "/api/tasks/k1", map[string]string{"status": "completed"}, e.cookie(t, "m1", model.RoleTeam))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, e.tasks.updated)
}

func TestListTasksFilters(t *testing.T) {
	e := newEnv(t)
	staff := e.cookie(t, "m1", model.RoleManagement)

	rec, body := e.do(t, http.MethodGet, "/api/tasks?status=in_progress&assigned_to=m1", nil, staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["tasks"], 1)
	assert.Equal(t, model.TaskInProgress, *e.tasks.filter.Status)
	assert.Equal(t, "m1", *e.tasks.filter.AssignedTo)

	rec, _ = e.do(t, http.MethodGet, "/api/tasks?status=someday", nil, staff)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAbsencesRejectsExpiredFirst(t *testing.T) {
	e := newEnv(t)

	rec, _ := e.do(t, http.MethodGet, "/api/absences", nil, e.cookie(t, "m1", model.RoleTeam))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"reject", "list"}, e.absences.calls)
	assert.False(t, e.absences.rejectedAt.IsZero())
}

func TestDeleteServiceMissing(t *testing.T) {
	e := newEnv(t)
	staff := e.cookie(t, "m1", model.RoleTeam)

	rec, _ := e.do(t, http.MethodDelete, "/api/services/s1", nil, staff)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := e.do(t, http.MethodDelete, "/api/services/s9", nil, staff)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Service not found", body["error"])
}

func profileForm(t *testing.T, fields map[string]string, picture []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="profile_picture"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write(picture)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func (e *env) upload(t *testing.T, fields map[string]string, picture []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := profileForm(t, fields, picture)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/profile/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(e.cookie(t, "u1", model.RoleUser))

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	return rec
}

func TestUploadProfile(t *testing.T) {
	e := newEnv(t)

	rec := e.upload(t, map[string]string{"name": "Ann Lee"}, []byte("png-bytes"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", e.accounts.uploadType)
	assert.Equal(t, []byte("png-bytes"), e.accounts.uploaded)
	assert.Equal(t, "Ann Lee", e.accounts.user.Name)
	require.NotNil(t, e.accounts.user.ProfilePicture)
	assert.Equal(t, "data:image/png;base64,", *e.accounts.user.ProfilePicture)
}

func TestUploadProfileInvalidNicknameKeepsPicture(t *testing.T) {
	e := newEnv(t)

	rec := e.upload(t, map[string]string{"nickname": "ab"}, []byte("png-bytes"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, e.accounts.uploaded)
	assert.Nil(t, e.accounts.user.ProfilePicture)
}

func TestUnexpectedErrorIsOpaque(t *testing.T) {
	e := newEnv(t)
	e.accounts.loginErr = failure.Crypto("test", io.ErrUnexpectedEOF)

	rec, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com"}, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Contains(t, e.log.String(), "level=ERROR")
}
