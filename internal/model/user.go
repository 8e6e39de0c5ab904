package model

import (
	"strings"

	"github.com/A-ndrey/spdesk/internal/failure"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleTeam       Role = "team"
	RoleManagement Role = "management"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTeam, RoleManagement:
		return true
	default:
		return false
	}
}

// Elevated reports whether r grants access to team-only resources.
func (r Role) Elevated() bool {
	return r == RoleTeam || r == RoleManagement
}

type User struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Nickname       string  `json:"nickname"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	ProfilePicture *string `json:"profile_picture"`
	TOTPEnabled    bool    `json:"totp_enabled"`
	PasswordHash   string  `json:"-"`
	TOTPSecret     *string `json:"-"`
}

// Member is the public listing view of a user.
type Member struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Nickname       string  `json:"nickname"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	ProfilePicture *string `json:"profile_picture"`
}

// UserPatch lists the user columns that may be changed. Nil fields are left
// untouched.
type UserPatch struct {
	Name           *string
	Nickname       *string
	Email          *string
	Role           *Role
	PasswordHash   *string
	ProfilePicture *string
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Nickname == nil && p.Email == nil && p.Role == nil && p.PasswordHash == nil && p.ProfilePicture == nil
}

const minNicknameLength = 3

func ValidateNickname(op, nickname string) error {
	if len([]rune(strings.TrimSpace(nickname))) < minNicknameLength {
		return failure.Validation(op, "Nickname must be at least 3 characters")
	}

	return nil
}
