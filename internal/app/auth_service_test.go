package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) *AuthService {
	env := newTestEnv(t, "")
	s := NewAuthService(env.userRepo, testLogger())
	s.bcryptCost = bcrypt.MinCost
	return s
}

func TestAuthService_Register(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	admin, err := s.Register(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.NotEqual(t, "s3cret", admin.PasswordHash)

	student, err := s.Register(ctx, " alice ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", student.Username)
	assert.False(t, student.IsAdmin)

	_, err = s.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = s.Register(ctx, "bob", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_Login(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	u, err := s.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	link, err := s.RequestPasswordReset(ctx, " alice ", "http://localhost:5000/")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:5000/reset-password?token="), link)
	assert.Greater(t, len(link), len("http://localhost:5000/reset-password?token="))

	other, err := s.RequestPasswordReset(ctx, "alice", "http://localhost:5000")
	require.NoError(t, err)
	assert.NotEqual(t, link, other)

	_, err = s.RequestPasswordReset(ctx, "nobody", "http://localhost:5000")
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = s.RequestPasswordReset(ctx, "  ", "http://localhost:5000")
	assert.ErrorIs(t, err, ErrMissingUsername)
}
