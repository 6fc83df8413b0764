package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	user, err := Register("Alice", "alice@example.com", "s3cret", 100000.0)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.InDelta(t, 100000.0, user.Balance, 1e-9)
	// 库里只存摘要
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.Len(t, user.PasswordHash, 64)

	got, err := Authenticate("alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, err := Register("Bob", "bob@example.com", "pw", 100000.0)
	require.NoError(t, err)

	_, err = Register("Bobby", "bob@example.com", "pw2", 100000.0)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	_, err := Register("Carol", "carol@example.com", "right", 100000.0)
	require.NoError(t, err)

	_, err = Authenticate("carol@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPasswordDeterministic(t *testing.T) {
	assert.Equal(t, hashPassword("abc"), hashPassword("abc"))
	assert.NotEqual(t, hashPassword("abc"), hashPassword("abd"))
}
