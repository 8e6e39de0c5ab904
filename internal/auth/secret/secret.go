package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
)

// Bytes returns size bytes read from crypto/rand.
func Bytes(size int) ([]byte, error) {
	buf := make([]byte, size)

	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// Equal compares two shared secrets in constant time. Empty secrets never match.
func Equal(given, expected string) bool {
	if given == "" || expected == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
