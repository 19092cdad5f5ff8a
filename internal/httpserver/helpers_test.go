package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/hash"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	DB   *gorm.DB
	E    *echo.Echo
	Auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	r := repo.New(db)
	auth := &service.AuthService{Repo: r, Hasher: hash.New(bcrypt.MinCost), JWTSecret: testSecret}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: auth},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		LedgerHandler:  &LedgerHTTP{Svc: &service.LedgerService{Repo: r}},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		AdminHandler:   &AdminHTTP{Svc: &service.AdminService{Repo: r}},
		JWTSecret:      testSecret,
		Ready:          r.Ping,
	})

	return &testEnv{DB: db, E: e, Auth: auth}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// login registers the user when needed and returns an access token.
func (env *testEnv) login(t *testing.T, username string) string {
	t.Helper()

	creds := transport.CredentialsRequest{Username: username, Password: "secret1"}
	env.do(t, http.MethodPost, "/api/v1/auth/register", creds, "")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", creds, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	created, err := env.Auth.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, created)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", transport.CredentialsRequest{Username: "admin", Password: "admin123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.IsAdmin)
	return resp.Token
}

func (env *testEnv) product(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, env.DB.Create(p).Error)
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}
