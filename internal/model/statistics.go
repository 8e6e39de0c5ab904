package model

type DailyCompletion struct {
	Day       string `json:"day"`
	Completed int64  `json:"completed"`
}

type DailyCreation struct {
	Day     string `json:"day"`
	Created int64  `json:"created"`
}

type Statistics struct {
	TotalTasks      int64 `json:"total_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`

	TotalMembers int64 `json:"total_members"`
	TeamMembers  int64 `json:"team_members"`
	Clients      int64 `json:"clients"`

	ActiveAbsences int64 `json:"active_absences"`

	UrgentTasks int64 `json:"urgent_tasks"`
	HighTasks   int64 `json:"high_tasks"`
	MediumTasks int64 `json:"medium_tasks"`
	LowTasks    int64 `json:"low_tasks"`

	DailyCompletion []DailyCompletion `json:"daily_completion"`
	DailyCreation   []DailyCreation   `json:"daily_creation"`

	TotalBlogPosts int64 `json:"total_blog_posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`

	TotalEvents    int64 `json:"total_events"`
	UpcomingEvents int64 `json:"upcoming_events"`

	TotalTickets    int64 `json:"total_tickets"`
	OpenTickets     int64 `json:"open_tickets"`
	ResolvedTickets int64 `json:"resolved_tickets"`
}
