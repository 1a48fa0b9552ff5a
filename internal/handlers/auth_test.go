package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/testutil"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authTestEnv struct {
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		newTestTokens(t),
		constants.DefaultRefreshTokenTTL,
	)
	handler := NewAuthHandler(authService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	store.Options(RefreshSessionOptions(constants.DefaultRefreshTokenTTL, false))
	auth := r.Group("/api/v1/auth", sessions.Sessions(constants.RefreshCookieName, store))
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/refresh", handler.Refresh)
	auth.POST("/logout", handler.Logout)

	return authTestEnv{
		router:      r,
		authService: authService,
	}
}

func postWithCookie(r *gin.Engine, path string, body interface{}, session *http.Cookie) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.RefreshCookieName {
			return c
		}
	}
	return nil
}

func registerPayload() map[string]string {
	return map[string]string{
		"email":     "Ada@Example.com",
		"password":  "Passw0rdOK",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var user dto.UserDTO
	body := decodeEnvelope(t, w, &user)
	assert.Equal(t, "Registration successful", body.Message)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.FirstName)

	w = doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", registerPayload())
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrCodeConflict, decodeEnvelope(t, w, nil).Code)

	weak := registerPayload()
	weak["email"] = "weak@example.com"
	weak["password"] = "password"
	w = doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", weak)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated,
		doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", registerPayload()).Code)

	w := doRequest(env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password1A",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decodeEnvelope(t, w, nil).Code)
	assert.Nil(t, sessionCookie(w))

	w = doRequest(env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ADA@example.com",
		"password": "Passw0rdOK",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.AuthResponse
	decodeEnvelope(t, w, &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	session := sessionCookie(w)
	require.NotNil(t, session, "expected refresh cookie to be set")
	assert.True(t, session.HttpOnly)
	assert.Equal(t, constants.RefreshCookiePath, session.Path)
}

func TestAuthHandler_RefreshRotatesToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated,
		doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", registerPayload()).Code)

	login := doRequest(env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "Passw0rdOK",
	})
	require.Equal(t, http.StatusOK, login.Code)
	first := sessionCookie(login)
	require.NotNil(t, first)

	w := postWithCookie(env.router, "/api/v1/auth/refresh", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postWithCookie(env.router, "/api/v1/auth/refresh", nil, first)
	require.Equal(t, http.StatusOK, w.Code)
	second := sessionCookie(w)
	require.NotNil(t, second)

	// the rotated-out token no longer works
	w = postWithCookie(env.router, "/api/v1/auth/refresh", nil, first)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postWithCookie(env.router, "/api/v1/auth/refresh", nil, second)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated,
		doRequest(env.router, http.MethodPost, "/api/v1/auth/register", "", registerPayload()).Code)

	login := doRequest(env.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "Passw0rdOK",
	})
	require.Equal(t, http.StatusOK, login.Code)
	session := sessionCookie(login)
	require.NotNil(t, session)

	w := postWithCookie(env.router, "/api/v1/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decodeEnvelope(t, w, nil).Message)

	// the old cookie still carries the token, but it was revoked
	w = postWithCookie(env.router, "/api/v1/auth/refresh", nil, session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
