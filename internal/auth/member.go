package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/A-ndrey/spdesk/internal/auth/password"
	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/model"
	"github.com/A-ndrey/spdesk/internal/storage"
)

var errMemberNotFound = failure.NotFound("auth.Member", "Member not found")

type NewMember struct {
	Name     string     `json:"name"`
	Nickname string     `json:"nickname"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type MemberPatch struct {
	Name     *string     `json:"name"`
	Nickname *string     `json:"nickname"`
	Email    *string     `json:"email"`
	Role     *model.Role `json:"role"`
	Password *string     `json:"password"`
}

func (s *UserService) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.storage.List(ctx)
}

func (s *UserService) CreateMember(ctx context.Context, req NewMember) (model.User, error) {
	const op = "auth.CreateMember"

	if strings.TrimSpace(req.Name) == "" {
		return model.User{}, failure.Validation(op, "Name is required")
	}
	if err := model.ValidateNickname(op, req.Nickname); err != nil {
		return model.User{}, err
	}
	if !strings.Contains(req.Email, "@") {
		return model.User{}, failure.Validation(op, "Invalid email address")
	}
	if err := password.ValidateComplexity(req.Password); err != nil {
		return model.User{}, err
	}
	if !req.Role.Valid() {
		return model.User{}, failure.Validation(op, "Invalid role")
	}

	return s.create(ctx, op, model.User{
		Name:     req.Name,
		Nickname: req.Nickname,
		Email:    req.Email,
		Role:     req.Role,
	}, req.Password)
}

func (s *UserService) UpdateMember(ctx context.Context, memberID string, req MemberPatch) error {
	const op = "auth.UpdateMember"

	patch := model.UserPatch{Name: req.Name, Nickname: req.Nickname, Email: req.Email, Role: req.Role}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return failure.Validation(op, "Name cannot be empty")
	}
	if req.Nickname != nil {
		if err := model.ValidateNickname(op, *req.Nickname); err != nil {
			return err
		}
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return failure.Validation(op, "Invalid email address")
	}
	if req.Role != nil && !req.Role.Valid() {
		return failure.Validation(op, "Invalid role")
	}
	if req.Password != nil {
		if err := password.ValidateComplexity(*req.Password); err != nil {
			return err
		}
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return err
		}
		patch.PasswordHash = &digest
	}

	if patch.Empty() {
		return failure.Validation(op, "No updates provided")
	}

	err := s.storage.Update(ctx, memberID, patch)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errMemberNotFound
	case errors.Is(err, storage.ErrDuplicate):
		return failure.Conflict(op, "User with this email already exists")
	}

	return err
}

// DeleteMember removes memberID. Callers cannot delete themselves.
func (s *UserService) DeleteMember(ctx context.Context, callerID, memberID string) error {
	if callerID == memberID {
		return failure.Validation("auth.DeleteMember", "You cannot delete your own account")
	}

	err := s.storage.Delete(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return errMemberNotFound
	}

	return err
}
