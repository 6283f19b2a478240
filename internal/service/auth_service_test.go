package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskora/taskora-backend/internal/config"
)

func newAuthFixture() (*fakeUserRepo, AuthService) {
	userRepo := newFakeUserRepo()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     24,
		RefreshExpiry: 7,
	}
	return userRepo, NewAuthService(cfg, userRepo)
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()
	userRepo, svc := newAuthFixture()

	user, access, refresh, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, "password123", user.Password, "password must be hashed")

	t.Run("token carries the user id", func(t *testing.T) {
		token, err := svc.ValidateToken(access)
		require.NoError(t, err)
		userID, err := svc.GetUserIDFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, _, _, err := svc.Register(ctx, "Alice Again", "alice@example.com", "password456")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("refresh token persisted", func(t *testing.T) {
		stored, err := userRepo.FindRefreshToken(ctx, refresh)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, user.ID, stored.UserID)
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture()
	_, _, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, access, refresh, err := svc.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	userRepo, svc := newAuthFixture()
	_, _, refresh, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("refresh rotates the token", func(t *testing.T) {
		access, newRefresh, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEqual(t, refresh, newRefresh)

		// the old token is spent
		_, _, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrInvalidToken)

		refresh = newRefresh
	})

	t.Run("logout invalidates the token", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, refresh))
		stored, err := userRepo.FindRefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("garbage access token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})
}
