package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/billfold/estimate-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupLoginAndMe(t *testing.T) {
	h, _ := newTestAPI(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/signup", "", domain.SignupRequest{
		Email:       "pat@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Pat Smith",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
		Email:    "pat@example.com",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "Pat Smith", resp.User.DisplayName)

	w = doJSON(t, h, http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me domain.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "pat@example.com", me.Email)
	assert.Equal(t, "Pat Smith", me.DisplayName)
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _ := newTestAPI(t)

	req := domain.SignupRequest{
		Email:       "dup@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "First",
	}

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/signup", "", req)
	require.Equal(t, http.StatusCreated, w.Code)

	req.DisplayName = "Second"
	w = doJSON(t, h, http.MethodPost, "/api/v1/auth/signup", "", req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newTestAPI(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupValidation(t *testing.T) {
	h, _ := newTestAPI(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/signup", "", domain.SignupRequest{
		Email:       "not-an-email",
		Password:    "short",
		DisplayName: "",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "email")
	assert.Contains(t, apiErr.Errors, "password")
	assert.Contains(t, apiErr.Errors, "displayName")
}
