package storage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-ndrey/spdesk/internal/model"
)

var userRowColumns = []string{"id", "name", "nickname", "email", "password_hash", "role", "profile_picture", "totp_secret", "totp_enabled"}

func TestUserFindByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectQuery(regexp.QuoteMeta("from users where email = ?")).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "Ann", "ann", "ann@example.com", "$argon2id$...", "team", nil, "JBSWY3DP", true))

	usr, err := repo.FindByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)

	assert.Equal(t, "u1", usr.ID)
	assert.Equal(t, model.RoleTeam, usr.Role)
	assert.Nil(t, usr.ProfilePicture)
	require.NotNil(t, usr.TOTPSecret)
	assert.Equal(t, "JBSWY3DP", *usr.TOTPSecret)
	assert.True(t, usr.TOTPEnabled)
}

func TestUserFindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectQuery(regexp.QuoteMeta("from users where id = ?")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectExec(regexp.QuoteMeta("insert into users")).
		WithArgs(sqlmock.AnyArg(), "Ann", "ann", "ann@example.com", "hash", model.RoleUser, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	usr, err := repo.Create(context.Background(), model.User{Name: "Ann", Nickname: "ann", Email: "ann@example.com", PasswordHash: "hash", Role: model.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
}

func TestUserUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	name := "Ann B"
	role := model.RoleManagement

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name = ?, role = ?, updated_at = ? WHERE id = ?")).
		WithArgs(name, "management", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "u1", model.UserPatch{Name: &name, Role: &role}))
}

func TestUserUpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	nick := "annie"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET nickname = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), "u1", model.UserPatch{Nickname: &nick}), ErrNotFound)
}

func TestUserUpdateEmptyPatch(t *testing.T) {
	db, _ := newMock(t)

	assert.NoError(t, NewUser(db).Update(context.Background(), "u1", model.UserPatch{}))
}

func TestUserList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectQuery(regexp.QuoteMeta("order by role desc, name asc")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "nickname", "email", "role", "profile_picture"}).
			AddRow("u2", "Bob", "bob", "bob@example.com", "user", "data:image/png;base64,AA").
			AddRow("u1", "Ann", "ann", "ann@example.com", "management", nil))

	members, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "data:image/png;base64,AA", *members[0].ProfilePicture)
	assert.Equal(t, model.RoleManagement, members[1].Role)
}

func TestUserStoreTOTPSecretKeepsFlag(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectExec(regexp.QuoteMeta("update users set totp_secret = ?, updated_at = ? where id = ?")).
		WithArgs("JBSWY3DP", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.StoreTOTPSecret(context.Background(), "u1", "JBSWY3DP"))
}

func TestUserClearTOTPSecret(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectExec(regexp.QuoteMeta("set totp_secret = null, totp_enabled = 0")).
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearTOTPSecret(context.Background(), "u1"))
}

func TestUserDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUser(db)

	mock.ExpectExec(regexp.QuoteMeta("delete from users where id = ?")).
		WithArgs("u9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "u9"), ErrNotFound)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("insert into users")).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	_, err := NewUser(db).Create(context.Background(), model.User{Email: "ann@example.com", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)
}
