package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-ndrey/spdesk/internal/driver"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := driver.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(context.Background(), db))

	tables := []string{
		"users", "tickets", "ticket_comments", "tasks", "task_assignments", "task_comments",
		"absences", "news", "blog_posts", "future_plans", "schedules", "calendar_events", "services",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, table)
	}

	// running again is a no-op
	require.NoError(t, Migrate(context.Background(), db))
}
