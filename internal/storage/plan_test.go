package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-ndrey/spdesk/internal/model"
)

func TestPlanListOrder(t *testing.T) {
	db, mock := newMock(t)
	ts := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("when 'urgent' then 4")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "category", "priority", "status", "target_date", "completed_at", "created_by", "name", "created_at", "updated_at"}).
			AddRow("p1", "Video", "", "growth", "urgent", "idea", "2024-12-01", nil, "m1", "Mia", ts, ts))

	plans, err := NewPlan(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, model.PriorityUrgent, plans[0].Priority)
	assert.Equal(t, "2024-12-01", *plans[0].TargetDate)
}

func TestPlanUpdateCompleted(t *testing.T) {
	db, mock := newMock(t)

	status := model.PlanCompleted
	mock.ExpectExec(regexp.QuoteMeta("UPDATE future_plans SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?")).
		WithArgs("completed", sqlmock.AnyArg(), sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPlan(db).Update(context.Background(), "p1", model.PlanPatch{Status: &status}))
}
