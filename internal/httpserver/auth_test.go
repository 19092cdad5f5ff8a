package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", transport.CredentialsRequest{Username: "alice", Password: "secret1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[transport.StatusResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Registration successful.", resp.Message)
	assert.NotZero(t, resp.ID)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", transport.CredentialsRequest{Username: "alice", Password: "other12"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists.", message(t, rec))

	tests := []struct {
		name string
		req  transport.CredentialsRequest
		msg  string
	}{
		{name: "missing", req: transport.CredentialsRequest{Username: "", Password: ""}, msg: "Username and password required."},
		{name: "short username", req: transport.CredentialsRequest{Username: "ab", Password: "secret1"}, msg: "username must be at least 3 characters"},
		{name: "short password", req: transport.CredentialsRequest{Username: "bob", Password: "12345"}, msg: "password must be at least 6 characters"},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register", tt.req, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.name)
		assert.Equal(t, tt.msg, message(t, rec), tt.name)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/auth/register", transport.CredentialsRequest{Username: "alice", Password: "secret1"}, "")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", transport.CredentialsRequest{Username: "alice", Password: "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[transport.LoginResponse](t, rec)
	assert.Equal(t, "alice", resp.Username)
	assert.False(t, resp.IsAdmin)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.AccessCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Token, cookie.Value)

	claims, err := tokens.AccessClaimsFromToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleUser, claims.Role)

	for _, creds := range []transport.CredentialsRequest{
		{Username: "alice", Password: "wrong00"},
		{Username: "nobody", Password: "secret1"},
	} {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", creds, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials.", message(t, rec))
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/password", transport.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "newpass1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/password", transport.ChangePasswordRequest{OldPassword: "nope123", NewPassword: "newpass1"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Old password incorrect.", message(t, rec))

	rec = env.do(t, http.MethodPost, "/api/v1/auth/password", transport.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "short"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/password", transport.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "newpass1"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated.", decode[transport.StatusResponse](t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", transport.CredentialsRequest{Username: "alice", Password: "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", transport.CredentialsRequest{Username: "alice", Password: "newpass1"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokens.AccessCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestUserID_FromContext(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := userID(c)
	assert.ErrorIs(t, err, errUnauthorized)

	c.Set("user_id", "abc")
	_, err = userID(c)
	assert.ErrorIs(t, err, errUnauthorized)

	c.Set("user_id", "42")
	id, err := userID(c)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}
