package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	a, err := Bytes(20)
	require.NoError(t, err)
	b, err := Bytes(20)
	require.NoError(t, err)

	assert.Len(t, a, 20)
	assert.NotEqual(t, a, b)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("let-me-in", "let-me-in"))
	assert.False(t, Equal("let-me-in", "let-me-out"))
	assert.False(t, Equal("", ""))
	assert.False(t, Equal("x", ""))
}
