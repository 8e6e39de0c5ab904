// Package totp implements the time-based one-time password policy used for
// two-factor authentication: SHA1, six digits, a 30 second period and one
// step of clock skew in either direction. Code generation and comparison are
// delegated to github.com/pquerna/otp.
package totp

import (
	"encoding/base32"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"

	"github.com/A-ndrey/spdesk/internal/auth/secret"
	"github.com/A-ndrey/spdesk/internal/failure"
)

const (
	DefaultIssuer = "SocialPreview Dashboard"

	periodSeconds = 30
	skewSteps     = 1
	digits        = otp.DigitsSix
	algorithm     = otp.AlgorithmSHA1
	secretSize    = 20
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

var errEmptySecret = errors.New("empty secret")

var DefaultConfig = Config{
	issuer:       DefaultIssuer,
	currTimeFunc: time.Now,
}

type Config struct {
	issuer       string
	currTimeFunc func() time.Time
}

func NewConfig(issuer string, currTimeFunc func() time.Time) Config {
	if issuer == "" {
		issuer = DefaultIssuer
	}

	if currTimeFunc == nil {
		currTimeFunc = time.Now
	}

	return Config{
		issuer:       issuer,
		currTimeFunc: currTimeFunc,
	}
}

func (c Config) Issuer() string {
	return c.issuer
}

func (c Config) now() time.Time {
	if c.currTimeFunc == nil {
		return time.Now()
	}

	return c.currTimeFunc()
}

// GenerateSecret returns 160 random bits encoded as unpadded base32.
func GenerateSecret() (string, error) {
	key, err := secret.Bytes(secretSize)
	if err != nil {
		return "", failure.Crypto("totp.GenerateSecret", err)
	}

	return encoding.EncodeToString(key), nil
}

// ProvisioningURI builds the otpauth URI that authenticator apps scan during
// enrollment.
func (c Config) ProvisioningURI(sharedSecret, account string) (string, error) {
	if _, err := decodeSecret(sharedSecret); err != nil {
		return "", failure.Crypto("totp.ProvisioningURI", err)
	}

	label := c.issuer + ":" + account

	params := make(url.Values)
	params.Set("secret", normalize(sharedSecret))
	params.Set("issuer", c.issuer)
	params.Set("algorithm", algorithm.String())
	params.Set("digits", digits.String())
	params.Set("period", strconv.Itoa(periodSeconds))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + label,
		RawPath:  "/" + url.PathEscape(label),
		RawQuery: params.Encode(),
	}

	return u.String(), nil
}

// Verify reports whether code is valid for the current time step or one step
// either side of it. A wrong, short or non-numeric code is (false, nil); only
// a malformed secret is an error.
func (c Config) Verify(sharedSecret, code string) (bool, error) {
	if _, err := decodeSecret(sharedSecret); err != nil {
		return false, failure.Crypto("totp.Verify", err)
	}

	code = strings.TrimSpace(code)
	if len(code) != digits.Length() {
		return false, nil
	}

	ok, err := pqtotp.ValidateCustom(code, normalize(sharedSecret), c.now(), validateOpts())
	if err != nil {
		return false, failure.Crypto("totp.Verify", err)
	}

	return ok, nil
}

// GenerateCode returns the code for sharedSecret at t.
func GenerateCode(sharedSecret string, t time.Time) (string, error) {
	if _, err := decodeSecret(sharedSecret); err != nil {
		return "", failure.Crypto("totp.GenerateCode", err)
	}

	code, err := pqtotp.GenerateCodeCustom(normalize(sharedSecret), t, validateOpts())
	if err != nil {
		return "", failure.Crypto("totp.GenerateCode", err)
	}

	return code, nil
}

func validateOpts() pqtotp.ValidateOpts {
	return pqtotp.ValidateOpts{
		Period:    periodSeconds,
		Skew:      skewSteps,
		Digits:    digits,
		Algorithm: algorithm,
	}
}

func normalize(sharedSecret string) string {
	return strings.ToUpper(strings.TrimRight(strings.TrimSpace(sharedSecret), "="))
}

func decodeSecret(sharedSecret string) ([]byte, error) {
	key, err := encoding.DecodeString(normalize(sharedSecret))
	if err != nil {
		return nil, err
	}

	if len(key) == 0 {
		return nil, errEmptySecret
	}

	return key, nil
}
