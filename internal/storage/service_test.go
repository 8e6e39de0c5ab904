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

func TestServiceStatistics(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("from services where user_id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "completed", "paused", "total_value", "active_value"}).
			AddRow(4, 2, 1, 1, 1250.5, 800.0))

	st, err := NewService(db).Statistics(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, model.ServiceStatistics{
		TotalServices:     4,
		ActiveServices:    2,
		CompletedServices: 1,
		PausedServices:    1,
		TotalValue:        1250.5,
		ActiveValue:       800,
	}, st)
}

func TestServiceListByUser(t *testing.T) {
	db, mock := newMock(t)
	ts := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("where s.user_id = ? order by s.created_at desc")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "uname", "name", "description", "service_type", "price", "status",
			"start_date", "end_date", "progress", "notes", "created_by", "cname", "created_at", "updated_at"}).
			AddRow("s1", "u1", "Ann", "SEO", "audit", "seo", 300.0, "active", "2024-01-01", nil, 40, nil, "m1", nil, ts, ts))

	services, err := NewService(db).ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, services, 1)

	assert.Equal(t, 40, services[0].Progress)
	assert.Equal(t, "Ann", *services[0].UserName)
	assert.Nil(t, services[0].CreatedByName)
}

func TestServiceUpdateMissing(t *testing.T) {
	db, mock := newMock(t)

	progress := 100
	mock.ExpectExec(regexp.QuoteMeta("UPDATE services SET progress = ?, updated_at = ? WHERE id = ?")).
		WithArgs(100, sqlmock.AnyArg(), "s9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewService(db).Update(context.Background(), "s9", model.ServicePatch{Progress: &progress}), ErrNotFound)
}
