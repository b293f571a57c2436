package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/service/auth"
	"github.com/revisamed/revisamed-api/internal/store"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func newAuthFixture(userService *mockUserService, jwtService *mockJWTService, verifier *mockPasswordVerifier) *AuthHandler {
	return NewAuthHandler(userService, jwtService, verifier, time.Hour, nil)
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("student@example.com", "correct-horse-battery")
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$hash"
	return user
}

func TestRegisterSuccess(t *testing.T) {
	user := testUser(t)
	h := newAuthFixture(
		&mockUserService{user: user},
		&mockJWTService{accessToken: "access", refreshToken: "refresh"},
		&mockPasswordVerifier{},
	)

	w := postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Email:    "student@example.com",
		Password: "correct-horse-battery",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.NotEmpty(t, resp.ExpiresAt)
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthFixture(&mockUserService{}, &mockJWTService{}, &mockPasswordVerifier{})

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "longenoughpassword"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "longenoughpassword"}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h.Register, "/api/auth/register", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterEmailExists(t *testing.T) {
	h := newAuthFixture(
		&mockUserService{createErr: store.ErrEmailExists},
		&mockJWTService{},
		&mockPasswordVerifier{},
	)

	w := postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Email:    "taken@example.com",
		Password: "correct-horse-battery",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t)
	h := newAuthFixture(
		&mockUserService{user: user},
		&mockJWTService{accessToken: "access", refreshToken: "refresh"},
		&mockPasswordVerifier{expected: "correct-horse-battery"},
	)

	w := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email:    "student@example.com",
		Password: "correct-horse-battery",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "access", resp.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	user := testUser(t)

	t.Run("wrong password", func(t *testing.T) {
		h := newAuthFixture(
			&mockUserService{user: user},
			&mockJWTService{},
			&mockPasswordVerifier{expected: "correct-horse-battery"},
		)
		w := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
			Email:    "student@example.com",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		h := newAuthFixture(
			&mockUserService{getErr: store.ErrUserNotFound},
			&mockJWTService{},
			&mockPasswordVerifier{expected: "correct-horse-battery"},
		)
		w := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse-battery",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials",
			"unknown email must be indistinguishable from a wrong password")
	})
}

func TestRefreshTokenSuccess(t *testing.T) {
	userID := uuid.New()
	h := newAuthFixture(
		&mockUserService{},
		&mockJWTService{
			accessToken:  "new-access",
			refreshToken: "new-refresh",
			claims:       &auth.Claims{UserID: userID, TokenType: "refresh"},
		},
		&mockPasswordVerifier{},
	)

	w := postJSON(t, h.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
		RefreshToken: "old-refresh",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new-access", resp.AccessToken)
	assert.Equal(t, "new-refresh", resp.RefreshToken, "refresh token must rotate")
	assert.NotEmpty(t, resp.ExpiresAt)
}

func TestRefreshTokenErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"expired", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"invalid", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"access token used as refresh", auth.ErrWrongTokenType, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthFixture(
				&mockUserService{},
				&mockJWTService{validateErr: tt.err},
				&mockPasswordVerifier{},
			)
			w := postJSON(t, h.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
				RefreshToken: "some-token",
			})
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRefreshTokenMissingBodyField(t *testing.T) {
	h := newAuthFixture(&mockUserService{}, &mockJWTService{}, &mockPasswordVerifier{})

	w := postJSON(t, h.RefreshToken, "/api/auth/refresh", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
