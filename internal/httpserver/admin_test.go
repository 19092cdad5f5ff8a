package httpserver

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.login(t, "alice")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/admin/metrics", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/admin/metrics", nil, "garbage").Code)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/metrics", nil, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", message(t, rec))
}

func TestAdminProductLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.adminToken(t)
	user := env.login(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/products", transport.CreateProductRequest{Name: "", Price: 10}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/products", transport.CreateProductRequest{Name: "Cortez", Price: 90, Stock: 3}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[transport.StatusResponse](t, rec)
	assert.Equal(t, "Product added.", created.Message)
	path := "/api/v1/admin/products/" + itoa(created.ID)

	price := 95.0
	rec = env.do(t, http.MethodPatch, path, transport.PatchProductRequest{Price: &price}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Product updated.", decode[transport.StatusResponse](t, rec).Message)

	var p models.Product
	require.NoError(t, env.DB.First(&p, created.ID).Error)
	assert.Equal(t, 95.0, p.Price)
	assert.Equal(t, 3, p.Stock)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/api/v1/admin/products/999", transport.PatchProductRequest{Price: &price}, admin).Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", transport.PlaceOrderRequest{Items: []transport.CartItem{
		{ProductID: created.ID, UnitPrice: 95, Quantity: 1},
	}}, user)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/metrics", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[models.AdminMetrics](t, rec)
	assert.EqualValues(t, 2, m.UserCount)
	assert.EqualValues(t, 1, m.OrderCount)
	assert.Equal(t, 95.0, m.TotalRevenue)
	require.Len(t, m.LowStock, 1)
	assert.Equal(t, 2, m.LowStock[0].Stock)

	rec = env.do(t, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	other := env.product(t, "Free Run", 80, 9)
	rec = env.do(t, http.MethodDelete, "/api/v1/admin/products/"+itoa(other.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted.", decode[transport.StatusResponse](t, rec).Message)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/products/"+itoa(other.ID), nil, "").Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}
