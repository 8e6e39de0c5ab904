package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-ndrey/spdesk/internal/failure"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":               "hello-world",
		"  Launch: Q3 -- Roadmap! ": "launch-q3-roadmap",
		"Ünïcode Straße 2024":       "ünïcode-straße-2024",
		"!!!":                       "",
	}

	for title, want := range tests {
		assert.Equal(t, want, Slugify(title), title)
	}
}

func TestBlogTitleNeedsSlug(t *testing.T) {
	err := NewBlogPost{Title: "!!!", Content: "body"}.Validate()
	assert.Equal(t, "Title must contain letters or digits", failure.Message(err))

	require.NoError(t, NewBlogPost{Title: "Q3!", Content: "body"}.Validate())

	title := " -- "
	err = BlogPatch{Title: &title}.Validate()
	assert.True(t, failure.Is(err, failure.KindValidation))

	title = "Roadmap"
	assert.NoError(t, BlogPatch{Title: &title}.Validate())
}

func TestRoles(t *testing.T) {
	assert.True(t, RoleManagement.Elevated())
	assert.True(t, RoleTeam.Elevated())
	assert.False(t, RoleUser.Elevated())
	assert.False(t, Role("admin").Valid())
}

func TestParseAbsenceDate(t *testing.T) {
	start, err := ParseAbsenceDate("2024-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), start)

	end, err := ParseAbsenceDate("2024-03-10", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), end)

	ts, err := ParseAbsenceDate("2024-03-10T08:30:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC), ts)

	_, err = ParseAbsenceDate("10/03/2024", false)
	assert.True(t, failure.Is(err, failure.KindValidation))
}

func TestNewAbsenceResolve(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		in    NewAbsence
		want  AbsenceStatus
		isErr bool
	}{
		{name: "covers now", in: NewAbsence{Reason: "sick", StartDate: "2024-03-10", EndDate: "2024-03-10"}, want: AbsenceApproved},
		{name: "future", in: NewAbsence{Reason: "vacation", StartDate: "2024-04-01", EndDate: "2024-04-05"}, want: AbsencePending},
		{name: "past", in: NewAbsence{Reason: "vacation", StartDate: "2024-03-01", EndDate: "2024-03-02"}, want: AbsencePending},
		{name: "no reason", in: NewAbsence{StartDate: "2024-03-01", EndDate: "2024-03-02"}, isErr: true},
		{name: "reversed", in: NewAbsence{Reason: "x", StartDate: "2024-03-05", EndDate: "2024-03-02"}, isErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, status, err := tt.in.Resolve(now)
			if tt.isErr {
				assert.True(t, failure.Is(err, failure.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestNewPlanDefaults(t *testing.T) {
	p, err := NewPlan{Title: "Expand to video"}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, "other", p.Category)
	assert.Equal(t, "idea", p.Status)
	require.NotNil(t, p.Priority)
	assert.Equal(t, PriorityMedium, *p.Priority)

	_, err = NewPlan{}.Normalize()
	assert.Error(t, err)
}

func TestNewServiceDefaults(t *testing.T) {
	in := NewService{UserID: "u1", Name: "SEO", Description: "audit", ServiceType: "seo", StartDate: "2024-01-01", Price: 300}

	s, err := in.Normalize()
	require.NoError(t, err)
	assert.Equal(t, ServiceActive, *s.Status)
	assert.Equal(t, 0, *s.Progress)

	over := 101
	in.Progress = &over
	_, err = in.Normalize()
	assert.True(t, failure.Is(err, failure.KindValidation))
}

func TestPatchValidate(t *testing.T) {
	assert.Error(t, TicketPatch{}.Validate())
	assert.Error(t, TaskPatch{}.Validate())
	assert.Error(t, PlanPatch{}.Validate())
	assert.Error(t, ServicePatch{}.Validate())

	bad := TicketStatus("done")
	assert.Error(t, TicketPatch{Status: &bad}.Validate())

	resolved := TicketResolved
	assert.NoError(t, TicketPatch{Status: &resolved}.Validate())
}

func TestTaskAssignedTo(t *testing.T) {
	task := Task{AssignedUsers: []AssignedUser{{ID: "a"}, {ID: "b"}}}

	assert.True(t, task.AssignedTo("b"))
	assert.False(t, task.AssignedTo("c"))
}
