// Package password hashes and verifies account passwords with Argon2id and
// enforces the password complexity rules.
//
// Digests use the PHC string format
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<key>
//
// with unpadded standard base64 for salt and key, so digests carry every
// parameter needed to verify them later.
package password

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"

	"github.com/A-ndrey/spdesk/internal/auth/secret"
	"github.com/A-ndrey/spdesk/internal/failure"
)

const (
	algorithmID = "argon2id"
	minLength   = 12

	minMemoryKiB   uint32 = 8 * 1024
	maxMemoryKiB   uint32 = 1024 * 1024
	maxTimeCost    uint32 = 64
	minSaltLength         = 8
	minKeyLength          = 16
	defaultSaltLen        = 16
)

var (
	ErrTooShort     = failure.Validation("password.ValidateComplexity", "Password must be at least 12 characters long")
	ErrNoUppercase  = failure.Validation("password.ValidateComplexity", "Password must contain at least one uppercase letter")
	ErrNoLowercase  = failure.Validation("password.ValidateComplexity", "Password must contain at least one lowercase letter")
	ErrNoDigit      = failure.Validation("password.ValidateComplexity", "Password must contain at least one number")
	errInvalidParam = errors.New("invalid argon2 parameters")
)

type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams match the defaults of the reference Argon2 implementation
// (19 MiB, two passes, one lane).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Time:        2,
	Parallelism: 1,
	SaltLength:  defaultSaltLen,
	KeyLength:   32,
}

type Hasher struct {
	params Params
}

func NewHasher(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &Hasher{params: params}, nil
}

func (p Params) validate() error {
	switch {
	case p.Memory < minMemoryKiB || p.Memory > maxMemoryKiB:
		return fmt.Errorf("%w: memory %d KiB", errInvalidParam, p.Memory)
	case p.Time < 1 || p.Time > maxTimeCost:
		return fmt.Errorf("%w: time %d", errInvalidParam, p.Time)
	case p.Parallelism < 1:
		return fmt.Errorf("%w: parallelism %d", errInvalidParam, p.Parallelism)
	case p.SaltLength < minSaltLength:
		return fmt.Errorf("%w: salt length %d", errInvalidParam, p.SaltLength)
	case p.KeyLength < minKeyLength:
		return fmt.Errorf("%w: key length %d", errInvalidParam, p.KeyLength)
	}

	return nil
}

// ValidateComplexity checks length, uppercase, lowercase and digit rules in
// that order and reports the first rule that fails.
func ValidateComplexity(password string) error {
	if len([]rune(password)) < minLength {
		return ErrTooShort
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper {
		return ErrNoUppercase
	}
	if !lower {
		return ErrNoLowercase
	}
	if !digit {
		return ErrNoDigit
	}

	return nil
}

func (h *Hasher) Hash(password string) (string, error) {
	salt, err := secret.Bytes(int(h.params.SaltLength))
	if err != nil {
		return "", failure.Crypto("password.Hash", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key for password with the parameters embedded in
// digest. A mismatch is (false, nil); a digest that cannot be parsed is a
// crypto failure.
func (h *Hasher) Verify(password, digest string) (bool, error) {
	d, err := parseDigest(digest)
	if err != nil {
		return false, failure.Crypto("password.Verify", err)
	}

	key := argon2.IDKey([]byte(password), d.salt, d.params.Time, d.params.Memory, d.params.Parallelism, uint32(len(d.key)))

	return secret.Equal(string(key), string(d.key)), nil
}

type digest struct {
	params Params
	salt   []byte
	key    []byte
}

func parseDigest(s string) (digest, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" {
		return digest{}, errors.New("invalid PHC format")
	}

	if parts[1] != algorithmID {
		return digest{}, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return digest{}, errors.New("missing argon2 version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return digest{}, fmt.Errorf("unsupported argon2 version %q", version)
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return digest{}, err
	}

	salt, err := decodeB64(parts[4])
	if err != nil {
		return digest{}, fmt.Errorf("invalid salt encoding: %w", err)
	}
	key, err := decodeB64(parts[5])
	if err != nil {
		return digest{}, fmt.Errorf("invalid key encoding: %w", err)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	if err := params.validate(); err != nil {
		return digest{}, err
	}

	return digest{params: params, salt: salt, key: key}, nil
}

func parseParams(s string) (Params, error) {
	var p Params
	var seen int

	for _, kv := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return Params{}, fmt.Errorf("%w: %q", errInvalidParam, kv)
		}

		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %q", errInvalidParam, kv)
		}

		switch name {
		case "m":
			p.Memory = uint32(n)
		case "t":
			p.Time = uint32(n)
		case "p":
			if n > 255 {
				return Params{}, fmt.Errorf("%w: %q", errInvalidParam, kv)
			}
			p.Parallelism = uint8(n)
		default:
			return Params{}, fmt.Errorf("%w: unknown parameter %q", errInvalidParam, name)
		}
		seen++
	}

	if seen != 3 {
		return Params{}, fmt.Errorf("%w: %q", errInvalidParam, s)
	}

	return p, nil
}

// decodeB64 accepts both padded and unpadded standard base64.
func decodeB64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
