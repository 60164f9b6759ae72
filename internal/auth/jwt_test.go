package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/domain"
)

func testUser() *domain.User {
	u := &domain.User{
		Email:       "user@example.com",
		DisplayName: "Test User",
	}
	u.ID = uuid.New()
	return u
}

func TestIssueAndValidate(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret-at-least-32-characters", time.Hour)
	require.NoError(t, err)

	user := testUser()
	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.DisplayName, userCtx.DisplayName)
}

func TestValidateExpiredToken(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret-at-least-32-characters", -time.Minute)
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-one-that-is-long-enough-here", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("secret-two-that-is-long-enough-here", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret-at-least-32-characters", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestAuthenticateMiddleware(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret-at-least-32-characters", time.Hour)
	require.NoError(t, err)
	mw := NewMiddleware(issuer, zap.NewNop())

	user := testUser()
	token, err := issuer.Issue(user)
	require.NoError(t, err)

	var gotCtx *UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtx = MustFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotCtx)
		assert.Equal(t, user.ID, gotCtx.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
