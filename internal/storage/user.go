package storage

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

const userColumns = "id, name, nickname, email, password_hash, role, profile_picture, totp_secret, totp_enabled"

type User struct {
	db DBTX
}

func NewUser(db DBTX) *User {
	us := User{db: db}

	return &us
}

func (u *User) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return u.findOne(ctx, "select "+userColumns+" from users where email = ?", email)
}

func (u *User) FindByID(ctx context.Context, userID string) (model.User, error) {
	return u.findOne(ctx, "select "+userColumns+" from users where id = ?", userID)
}

func (u *User) findOne(ctx context.Context, query string, arg string) (model.User, error) {
	var (
		usr            model.User
		profilePicture sql.NullString
		totpSecret     sql.NullString
	)

	err := u.db.QueryRowContext(ctx, query, arg).Scan(
		&usr.ID, &usr.Name, &usr.Nickname, &usr.Email, &usr.PasswordHash, &usr.Role,
		&profilePicture, &totpSecret, &usr.TOTPEnabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	usr.ProfilePicture = stringPtr(profilePicture)
	usr.TOTPSecret = stringPtr(totpSecret)

	return usr, nil
}

func (u *User) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := u.db.QueryRowContext(ctx, "select exists(select 1 from users where email = ?)", email).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (u *User) Create(ctx context.Context, user model.User) (model.User, error) {
	user.ID = newID()
	ts := now()

	_, err := u.db.ExecContext(ctx,
		"insert into users (id, name, nickname, email, password_hash, role, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Nickname, user.Email, user.PasswordHash, user.Role, ts, ts,
	)
	if err != nil {
		return model.User{}, uniqueViolation(err)
	}

	return user, nil
}

func (u *User) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := u.db.ExecContext(ctx, "update users set password_hash = ?, updated_at = ? where id = ?", passwordHash, now(), userID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

// Update applies every non-nil field of patch to the user.
func (u *User) Update(ctx context.Context, userID string, patch model.UserPatch) error {
	if patch.Empty() {
		return nil
	}

	b := sq.Update("users")
	if patch.Name != nil {
		b = b.Set("name", *patch.Name)
	}
	if patch.Nickname != nil {
		b = b.Set("nickname", *patch.Nickname)
	}
	if patch.Email != nil {
		b = b.Set("email", *patch.Email)
	}
	if patch.Role != nil {
		b = b.Set("role", string(*patch.Role))
	}
	if patch.PasswordHash != nil {
		b = b.Set("password_hash", *patch.PasswordHash)
	}
	if patch.ProfilePicture != nil {
		b = b.Set("profile_picture", *patch.ProfilePicture)
	}

	return uniqueViolation(execUpdate(ctx, u.db, b.Set("updated_at", now()).Where(sq.Eq{"id": userID})))
}

func (u *User) Delete(ctx context.Context, userID string) error {
	res, err := u.db.ExecContext(ctx, "delete from users where id = ?", userID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (u *User) List(ctx context.Context) ([]model.Member, error) {
	rows, err := u.db.QueryContext(ctx, "select id, name, nickname, email, role, profile_picture from users order by role desc, name asc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var (
			m              model.Member
			profilePicture sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Nickname, &m.Email, &m.Role, &profilePicture); err != nil {
			return nil, err
		}
		m.ProfilePicture = stringPtr(profilePicture)
		members = append(members, m)
	}

	return members, rows.Err()
}

func (u *User) StoreTOTPSecret(ctx context.Context, userID string, secret string) error {
	res, err := u.db.ExecContext(ctx, "update users set totp_secret = ?, updated_at = ? where id = ?", secret, now(), userID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (u *User) SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	res, err := u.db.ExecContext(ctx, "update users set totp_enabled = ?, updated_at = ? where id = ?", enabled, now(), userID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

// ClearTOTPSecret disables two-factor and drops the secret in one statement.
func (u *User) ClearTOTPSecret(ctx context.Context, userID string) error {
	res, err := u.db.ExecContext(ctx, "update users set totp_secret = null, totp_enabled = 0, updated_at = ? where id = ?", now(), userID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
