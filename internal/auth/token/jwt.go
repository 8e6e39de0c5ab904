package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/model"
)

// DefaultTTL is how long an issued session stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidSession is returned for every token that fails validation, so
// callers can't tell a bad signature from an expired or garbled token.
var ErrInvalidSession = failure.Auth("token.Validate", "Invalid or expired session")

var errEmptySecret = errors.New("empty signing secret")

// Claims identify the subject of a session. They are signed, not encrypted.
type Claims struct {
	Subject   string
	Email     string
	Role      model.Role
	ExpiresAt time.Time
}

type jwtClaims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewJWTService(secret []byte, ttl time.Duration) *JWTService {
	return newJWTService(secret, ttl, time.Now)
}

func newJWTService(secret []byte, ttl time.Duration, now func() time.Time) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &JWTService{
		secret: secret,
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithExpirationRequired(),
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(now),
		),
	}
}

func (j *JWTService) TTL() time.Duration {
	return j.ttl
}

// NewClaims builds claims for user that expire one TTL from now. The expiry
// is truncated to whole seconds, the precision of the exp claim.
func (j *JWTService) NewClaims(user model.User) Claims {
	return Claims{
		Subject:   user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: j.now().Add(j.ttl).Truncate(time.Second),
	}
}

func (j *JWTService) Issue(claims Claims) (string, error) {
	if len(j.secret) == 0 {
		return "", failure.Signing("token.Issue", errEmptySecret)
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := jwtToken.SignedString(j.secret)
	if err != nil {
		return "", failure.Signing("token.Issue", err)
	}

	return signed, nil
}

func (j *JWTService) Validate(tokenString string) (Claims, error) {
	var claims jwtClaims
	if _, err := j.parser.ParseWithClaims(tokenString, &claims, j.keyFunc); err != nil {
		return Claims{}, ErrInvalidSession
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return Claims{}, ErrInvalidSession
	}

	return Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *JWTService) keyFunc(_ *jwt.Token) (any, error) {
	if len(j.secret) == 0 {
		return nil, errEmptySecret
	}

	return j.secret, nil
}
