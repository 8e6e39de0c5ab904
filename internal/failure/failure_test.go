package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Validation("op", "bad"), want: KindValidation},
		{name: "wrapped auth", err: fmt.Errorf("login: %w", Auth("op", "nope")), want: KindAuth},
		{name: "joined crypto", err: errors.Join(errors.New("x"), Crypto("op", errors.New("bad digest"))), want: KindCrypto},
		{name: "plain", err: errors.New("boom"), want: Unknown},
		{name: "nil", err: nil, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorText(t *testing.T) {
	cause := errors.New("short salt")
	err := Crypto("password.Verify", cause)

	assert.Equal(t, "password.Verify: short salt", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, Message(err))

	err = NotFound("tickets.Get", "Ticket not found")
	assert.Equal(t, "tickets.Get: Ticket not found", err.Error())
	assert.Equal(t, "Ticket not found", Message(err))
}

func TestExpected(t *testing.T) {
	assert.True(t, KindAuth.Expected())
	assert.True(t, KindValidation.Expected())
	assert.False(t, KindCrypto.Expected())
	assert.False(t, KindSigning.Expected())
	assert.False(t, Unknown.Expected())
}
