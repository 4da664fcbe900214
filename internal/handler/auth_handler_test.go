package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreekavinmr/masterminds-backend/internal/middleware"
	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

type authServiceMock struct {
	loginErr    error
	resetErr    error
	consumeErr  error
	loggedOut   []*models.SessionClaims
	resetTokens []string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.TokenPair{Session: "session-token", Display: "display-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, claims *models.SessionClaims) {
	m.loggedOut = append(m.loggedOut, claims)
}

func (m *authServiceMock) RequestReset(ctx context.Context, req models.ForgotPasswordRequest) error {
	return m.resetErr
}

func (m *authServiceMock) ConsumeReset(ctx context.Context, rawToken string, req models.ResetPasswordRequest) error {
	m.resetTokens = append(m.resetTokens, rawToken)
	return m.consumeErr
}

func (m *authServiceMock) Me(ctx context.Context, claims *models.SessionClaims) (*models.MeResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.MeResponse{Name: claims.Name, Role: claims.Role}, nil
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body []byte
	switch p := payload.(type) {
	case nil:
	case string:
		body = []byte(p)
	default:
		var err error
		body, err = json.Marshal(p)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestLoginSetsBothCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{}, CookieConfig{MaxAge: time.Hour})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "a@example.com", Password: "secret1"})

	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := cookiesByName(w)
	require.Contains(t, cookies, middleware.SessionCookie)
	require.Contains(t, cookies, middleware.DisplayCookie)

	session := cookies[middleware.SessionCookie]
	assert.Equal(t, "session-token", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, 3600, session.MaxAge)
	assert.Equal(t, "/", session.Path)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.False(t, session.Secure)

	display := cookies[middleware.DisplayCookie]
	assert.Equal(t, "display-token", display.Value)
	assert.False(t, display.HttpOnly)
	assert.Contains(t, w.Body.String(), "Login successful")
}

func TestLoginProductionCookiesAreSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{}, CookieConfig{Secure: true, MaxAge: time.Hour})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "a@example.com", Password: "secret1"})

	h.Login(c)

	session := cookiesByName(w)[middleware.SessionCookie]
	require.NotNil(t, session)
	assert.True(t, session.Secure)
	assert.Equal(t, http.SameSiteNoneMode, session.SameSite)
}

func TestLoginFailureBodiesAreIdentical(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials}, CookieConfig{})

	bodies := make([]string, 0, 2)
	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: "wrong"})
		h.Login(c)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Result().Cookies())
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])

	var env response.Envelope
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &env))
	assert.Equal(t, "Invalid credentials", env.Error.Message)
}

func TestLoginMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{}, CookieConfig{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/auth/login", "{not json")

	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{}
	h := NewAuthHandler(svc, CookieConfig{Secure: true})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	claims := &models.SessionClaims{ID: "u1"}
	c.Set(middleware.ContextUserKey, claims)

	h.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := cookiesByName(w)
	for _, name := range []string{middleware.SessionCookie, middleware.DisplayCookie} {
		ck := cookies[name]
		require.NotNil(t, ck, name)
		assert.Empty(t, ck.Value)
		assert.True(t, ck.MaxAge < 0)
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	}
	assert.Equal(t, []*models.SessionClaims{claims}, svc.loggedOut)
}

func TestResetPasswordPassesPathToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{consumeErr: appErrors.ErrInvalidResetToken}
	h := NewAuthHandler(svc, CookieConfig{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/auth/resetpassword/abc123", models.ResetPasswordRequest{Password: "newpass"})
	c.Params = gin.Params{{Key: "resettoken", Value: "abc123"}}

	h.ResetPassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"abc123"}, svc.resetTokens)
	assert.Contains(t, w.Body.String(), "Invalid or expired reset token")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{resetErr: appErrors.Clone(appErrors.ErrNotFound, "User not found")}, CookieConfig{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/auth/forgotpassword", models.ForgotPasswordRequest{Email: "ghost@example.com"})

	h.ForgotPassword(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeReturnsNameAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{}, CookieConfig{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.SessionClaims{ID: "u1", Name: "Asha", Role: models.RoleAdmin})

	h.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data models.MeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, models.MeResponse{Name: "Asha", Role: models.RoleAdmin}, env.Data)
}
