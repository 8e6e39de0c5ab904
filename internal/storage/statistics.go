package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/A-ndrey/spdesk/internal/model"
)

// trendDays is the length of the daily completion and creation series.
const trendDays = 7

type Statistics struct {
	db DBTX
}

func NewStatistics(db DBTX) *Statistics {
	return &Statistics{db: db}
}

type counter struct {
	dest  *int64
	query string
	args  []any
}

// Collect gathers the dashboard counters as of at. Day buckets are UTC
// calendar days, the last one being the day of at.
func (s *Statistics) Collect(ctx context.Context, at time.Time) (model.Statistics, error) {
	at = at.UTC()
	today := at.Format("2006-01-02")

	var st model.Statistics
	counters := []counter{
		{&st.TotalTasks, "select count(*) from tasks", nil},
		{&st.CompletedTasks, "select count(*) from tasks where status = 'completed'", nil},
		{&st.PendingTasks, "select count(*) from tasks where status = 'pending'", nil},
		{&st.InProgressTasks, "select count(*) from tasks where status = 'in_progress'", nil},

		{&st.TeamMembers, "select count(*) from users where role in ('team', 'management')", nil},
		{&st.Clients, "select count(*) from users where role = 'user'", nil},

		{&st.ActiveAbsences, "select count(*) from absences where status = 'approved' and start_date <= ? and end_date >= ?", []any{at, at}},

		{&st.UrgentTasks, "select count(*) from tasks where priority = 'urgent'", nil},
		{&st.HighTasks, "select count(*) from tasks where priority = 'high'", nil},
		{&st.MediumTasks, "select count(*) from tasks where priority = 'medium'", nil},
		{&st.LowTasks, "select count(*) from tasks where priority = 'low'", nil},

		{&st.TotalBlogPosts, "select count(*) from blog_posts", nil},
		{&st.PublishedPosts, "select count(*) from blog_posts where status = 'published'", nil},
		{&st.DraftPosts, "select count(*) from blog_posts where status = 'draft'", nil},

		{&st.TotalEvents, "select count(*) from calendar_events", nil},
		{&st.UpcomingEvents, "select count(*) from calendar_events where start_date >= ?", []any{today}},

		{&st.TotalTickets, "select count(*) from tickets", nil},
		{&st.OpenTickets, "select count(*) from tickets where status = 'open'", nil},
		{&st.ResolvedTickets, "select count(*) from tickets where status = 'resolved'", nil},
	}

	for _, c := range counters {
		n, err := count(ctx, s.db, c.query, c.args...)
		if err != nil {
			return model.Statistics{}, fmt.Errorf("can't count %q: %w", c.query, err)
		}
		*c.dest = n
	}
	st.TotalMembers = st.TeamMembers + st.Clients

	midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	st.DailyCompletion = make([]model.DailyCompletion, 0, trendDays)
	st.DailyCreation = make([]model.DailyCreation, 0, trendDays)
	for daysAgo := trendDays - 1; daysAgo >= 0; daysAgo-- {
		from := midnight.AddDate(0, 0, -daysAgo)
		to := from.AddDate(0, 0, 1)
		label := fmt.Sprintf("Day %d", trendDays-daysAgo)

		completed, err := count(ctx, s.db,
			"select count(*) from tasks where status = 'completed' and completed_at >= ? and completed_at < ?", from, to)
		if err != nil {
			return model.Statistics{}, fmt.Errorf("can't count completed tasks: %w", err)
		}

		created, err := count(ctx, s.db, "select count(*) from tasks where created_at >= ? and created_at < ?", from, to)
		if err != nil {
			return model.Statistics{}, fmt.Errorf("can't count created tasks: %w", err)
		}

		st.DailyCompletion = append(st.DailyCompletion, model.DailyCompletion{Day: label, Completed: completed})
		st.DailyCreation = append(st.DailyCreation, model.DailyCreation{Day: label, Created: created})
	}

	return st, nil
}
