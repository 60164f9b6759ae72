package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/billfold/estimate-api/internal/auth"
	"github.com/billfold/estimate-api/internal/domain"
	"github.com/billfold/estimate-api/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenIssuer("test-secret-at-least-32-characters", time.Hour)
	require.NoError(t, err)

	return NewAuthService(
		repository.NewUserRepository(newTestDB(t)),
		tokens,
		bcrypt.MinCost,
		zap.NewNop(),
	)
}

func TestSignupAndLogin(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	signup, err := s.Signup(ctx, &domain.SignupRequest{
		Email:       "user@example.com",
		Password:    "correct horse battery",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, "Test User", signup.User.DisplayName)

	login, err := s.Login(ctx, &domain.LoginRequest{
		Email:    "user@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, login.User.ID)

	user, err := s.GetUser(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	req := &domain.SignupRequest{
		Email:       "dup@example.com",
		Password:    "password123",
		DisplayName: "First",
	}
	_, err := s.Signup(ctx, req)
	require.NoError(t, err)

	_, err = s.Signup(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginBadCredentials(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.Signup(ctx, &domain.SignupRequest{
		Email:       "user@example.com",
		Password:    "password123",
		DisplayName: "Test User",
	})
	require.NoError(t, err)

	_, err = s.Login(ctx, &domain.LoginRequest{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email fails identically
	_, err = s.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
