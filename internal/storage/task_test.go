package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-ndrey/spdesk/internal/model"
)

var taskRowColumns = []string{"id", "title", "description", "created_by", "name", "priority", "status", "due_date", "completed_at", "created_at", "updated_at"}

func TestTaskCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTask(db)
	ts := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into tasks")).
		WithArgs(sqlmock.AnyArg(), "Write copy", nil, "m1", "urgent", "pending", "2024-05-10", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into task_assignments")).
		WithArgs(sqlmock.AnyArg(), "a1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into task_assignments")).
		WithArgs(sqlmock.AnyArg(), "a2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks t JOIN users u on u.id = t.created_by WHERE t.id = ?")).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow("k1", "Write copy", nil, "m1", "Mia", "urgent", "pending", "2024-05-10", nil, ts, ts))
	mock.ExpectQuery(regexp.QuoteMeta("FROM task_assignments ta JOIN users u on u.id = ta.user_id WHERE ta.task_id IN (?)")).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "id", "name"}).
			AddRow("k1", "a1", "Ann").
			AddRow("k1", "a2", "Bob"))

	due := "2024-05-10"
	task, err := repo.Create(context.Background(), "m1", model.NewTask{
		Title:      "Write copy",
		AssignedTo: []string{"a1", "a2", "a1"},
		Priority:   model.PriorityUrgent,
		DueDate:    &due,
	})
	require.NoError(t, err)

	assert.Equal(t, "Mia", task.CreatedByName)
	assert.Equal(t, []model.AssignedUser{{ID: "a1", Name: "Ann"}, {ID: "a2", Name: "Bob"}}, task.AssignedUsers)
	assert.Nil(t, task.Description)
}

func TestTaskCreateRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTask(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into tasks")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into task_assignments")).WillReturnError(errors.New("FOREIGN KEY constraint failed"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), "m1", model.NewTask{Title: "x", AssignedTo: []string{"ghost"}, Priority: model.PriorityLow})
	assert.ErrorContains(t, err, "can't assign task")
}

func TestTaskListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTask(db)

	status := model.TaskInProgress
	assignee := "a1"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.status = ? AND t.id in (select task_id from task_assignments where user_id = ?) ORDER BY t.created_at desc")).
		WithArgs("in_progress", "a1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	tasks, err := repo.List(context.Background(), model.TaskFilter{Status: &status, AssignedTo: &assignee})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
}

func TestTaskGetMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = ?")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := NewTask(db).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateCompleted(t *testing.T) {
	db, mock := newMock(t)

	status := model.TaskCompleted
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?")).
		WithArgs("completed", sqlmock.AnyArg(), sqlmock.AnyArg(), "k1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewTask(db).Update(context.Background(), "k1", model.TaskPatch{Status: &status}))
}
