package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/A-ndrey/spdesk/internal/auth/mfa/totp"
	"github.com/A-ndrey/spdesk/internal/auth/password"
	"github.com/A-ndrey/spdesk/internal/auth/secret"
	"github.com/A-ndrey/spdesk/internal/auth/token"
	"github.com/A-ndrey/spdesk/internal/blob"
	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/model"
	"github.com/A-ndrey/spdesk/internal/storage"
)

// MaxProfilePictureSize bounds uploaded profile pictures.
const MaxProfilePictureSize = 20 << 20

var (
	ErrInvalidCredentials = failure.Auth("auth.Login", "Invalid email or password")
	ErrTwoFactorRequired  = failure.Auth("auth.Login", "2FA code required")
	ErrInvalidTOTPCode    = failure.Auth("auth.Login", "Invalid 2FA code")
	ErrUserNotFound       = failure.NotFound("auth.Me", "User not found")
)

type UserStorage interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, userID string) (model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	Update(ctx context.Context, userID string, patch model.UserPatch) error
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]model.Member, error)
	StoreTOTPSecret(ctx context.Context, userID, secret string) error
	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error
	ClearTOTPSecret(ctx context.Context, userID string) error
}

type UserService struct {
	logger             *slog.Logger
	storage            UserStorage
	hasher             *password.Hasher
	jwt                *token.JWTService
	totpConfig         totp.Config
	blobs              blob.Store
	registrationSecret string

	// dummyHash is verified against when the email is unknown so that both
	// branches of Login cost the same.
	dummyHash string
}

func NewUserService(
	logger *slog.Logger,
	storage UserStorage,
	hasher *password.Hasher,
	jwt *token.JWTService,
	totpConfig totp.Config,
	blobs blob.Store,
	registrationSecret string,
) (*UserService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("can't prepare dummy hash: %w", err)
	}

	return &UserService{
		logger:             logger,
		storage:            storage,
		hasher:             hasher,
		jwt:                jwt,
		totpConfig:         totpConfig,
		blobs:              blobs,
		registrationSecret: registrationSecret,
		dummyHash:          dummy,
	}, nil
}

type Registration struct {
	RegistrationSecret string     `json:"registration_secret"`
	Name               string     `json:"name"`
	Nickname           string     `json:"nickname"`
	Email              string     `json:"email"`
	Password           string     `json:"password"`
	Role               model.Role `json:"role"`
}

func (s *UserService) Register(ctx context.Context, req Registration) (model.User, error) {
	const op = "auth.Register"

	if !secret.Equal(req.RegistrationSecret, s.registrationSecret) {
		return model.User{}, failure.Forbidden(op, "Invalid registration secret")
	}

	switch {
	case strings.TrimSpace(req.Name) == "":
		return model.User{}, failure.Validation(op, "Name is required")
	case strings.TrimSpace(req.Nickname) == "":
		return model.User{}, failure.Validation(op, "Nickname is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
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

func (s *UserService) create(ctx context.Context, op string, user model.User, plain string) (model.User, error) {
	exists, err := s.storage.EmailExists(ctx, user.Email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, failure.Conflict(op, "User with this email already exists")
	}

	user.PasswordHash, err = s.hasher.Hash(plain)
	if err != nil {
		return model.User{}, err
	}

	u, err := s.storage.Create(ctx, user)
	if errors.Is(err, storage.ErrDuplicate) {
		return model.User{}, failure.Conflict(op, "User with this email already exists")
	}
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user created", slog.String("user_id", u.ID), slog.String("role", string(u.Role)))

	return u, nil
}

// Login checks the credentials and, when two-factor is on, the TOTP code.
// It returns the user and a freshly issued session token.
func (s *UserService) Login(ctx context.Context, email, plain, code string) (model.User, string, error) {
	const op = "auth.Login"

	if !strings.Contains(email, "@") {
		return model.User{}, "", failure.Validation(op, "Invalid email format")
	}

	u, err := s.storage.FindByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		_, _ = s.hasher.Verify(plain, s.dummyHash)
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", err
	}

	ok, err := s.hasher.Verify(plain, u.PasswordHash)
	if err != nil {
		return model.User{}, "", err
	}
	if !ok {
		return model.User{}, "", ErrInvalidCredentials
	}

	if u.TOTPEnabled {
		if code == "" {
			return model.User{}, "", ErrTwoFactorRequired
		}
		if u.TOTPSecret == nil {
			return model.User{}, "", failure.Crypto(op, errors.New("2FA configuration error"))
		}

		valid, err := s.totpConfig.Verify(*u.TOTPSecret, code)
		if err != nil {
			return model.User{}, "", err
		}
		if !valid {
			return model.User{}, "", ErrInvalidTOTPCode
		}
	}

	tok, err := s.jwt.Issue(s.jwt.NewClaims(u))
	if err != nil {
		return model.User{}, "", err
	}

	s.logger.Debug("login", slog.String("user_id", u.ID))

	return u, tok, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (model.User, error) {
	u, err := s.storage.FindByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}

	return u, err
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := password.ValidateComplexity(next); err != nil {
		return err
	}

	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, u.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return failure.Auth("auth.ChangePassword", "Current password is incorrect")
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}

	return s.storage.UpdatePassword(ctx, userID, digest)
}

type ProfileUpdate struct {
	Name           *string `json:"name"`
	Nickname       *string `json:"nickname"`
	ProfilePicture *string `json:"profile_picture"`
}

// Validate checks the text fields. The picture URL is produced by
// StoreProfilePicture and is not checked here.
func (p ProfileUpdate) Validate() error {
	const op = "auth.ProfileUpdate"

	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return failure.Validation(op, "Name cannot be empty")
	}
	if p.Nickname != nil {
		return model.ValidateNickname(op, *p.Nickname)
	}

	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req ProfileUpdate) (model.User, error) {
	if err := req.Validate(); err != nil {
		return model.User{}, err
	}

	patch := model.UserPatch{Name: req.Name, Nickname: req.Nickname, ProfilePicture: req.ProfilePicture}
	if err := s.update(ctx, userID, patch); err != nil {
		return model.User{}, err
	}

	return s.Me(ctx, userID)
}

// StoreProfilePicture puts the image bytes into the blob store and returns
// their URL. The profile itself is left alone; callers save the URL through
// UpdateProfile together with any other field changes.
func (s *UserService) StoreProfilePicture(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	const op = "auth.StoreProfilePicture"

	if !strings.HasPrefix(contentType, "image/") {
		return "", failure.Validation(op, "File must be an image")
	}
	if len(data) == 0 {
		return "", failure.Validation(op, "File is empty")
	}
	if len(data) > MaxProfilePictureSize {
		return "", failure.Validation(op, "File size exceeds 20MB limit")
	}

	key := "profile-pictures/" + userID + "/" + uuid.NewString()
	return s.blobs.Put(ctx, key, contentType, data)
}

func (s *UserService) update(ctx context.Context, userID string, patch model.UserPatch) error {
	err := s.storage.Update(ctx, userID, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}

	return err
}

type TOTPSetup struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

// SetupTOTP generates a pending secret. Two-factor stays off until EnableTOTP
// confirms a code derived from it. An enabled second factor must go through
// DisableTOTP first.
func (s *UserService) SetupTOTP(ctx context.Context, userID string) (TOTPSetup, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return TOTPSetup{}, err
	}
	if u.TOTPEnabled {
		return TOTPSetup{}, failure.Validation("auth.SetupTOTP", "2FA is already enabled")
	}

	sharedSecret, err := totp.GenerateSecret()
	if err != nil {
		return TOTPSetup{}, failure.Crypto("auth.SetupTOTP", err)
	}

	qr, err := s.totpConfig.QRCode(sharedSecret, u.Email)
	if err != nil {
		return TOTPSetup{}, err
	}

	if err := s.storage.StoreTOTPSecret(ctx, userID, sharedSecret); err != nil {
		return TOTPSetup{}, err
	}

	return TOTPSetup{Secret: sharedSecret, QRCode: qr}, nil
}

func (s *UserService) EnableTOTP(ctx context.Context, userID, code string) error {
	const op = "auth.EnableTOTP"

	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if u.TOTPSecret == nil {
		return failure.Validation(op, "2FA not set up. Please run setup first")
	}

	ok, err := s.totpConfig.Verify(*u.TOTPSecret, code)
	if err != nil {
		return err
	}
	if !ok {
		return failure.Validation(op, "Invalid 2FA code")
	}

	return s.storage.SetTwoFactorEnabled(ctx, userID, true)
}

func (s *UserService) DisableTOTP(ctx context.Context, userID, plain string) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(plain, u.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return failure.Auth("auth.DisableTOTP", "Invalid password")
	}

	return s.storage.ClearTOTPSecret(ctx, userID)
}
