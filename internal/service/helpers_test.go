package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/hash"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}

// anyPublisher accepts every event.
func anyPublisher() *mockPublisher {
	p := &mockPublisher{}
	p.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return p
}

func eventOfType(typ string) any {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == typ })
}

type testEnv struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Auth   *AuthService
	Cat    *CatalogService
	Ledger *LedgerService
	Orders *OrderService
	Admin  *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	r := repo.New(db)
	pub := anyPublisher()

	return &testEnv{
		DB:     db,
		Repo:   r,
		Auth:   &AuthService{Repo: r, Hasher: hash.New(bcrypt.MinCost), Events: pub, JWTSecret: []byte("test-jwt-secret")},
		Cat:    &CatalogService{Repo: r},
		Ledger: &LedgerService{Repo: r, Events: pub},
		Orders: &OrderService{Repo: r, Events: pub},
		Admin:  &AdminService{Repo: r, Events: pub},
	}
}

type productOpt func(*models.Product)

func withCategory(c string) productOpt {
	return func(p *models.Product) { p.Category = &c }
}

func withCreatedAt(ts time.Time) productOpt {
	return func(p *models.Product) { p.CreatedAt = ts }
}

func (env *testEnv) product(t *testing.T, name string, price float64, stock int, opts ...productOpt) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Price: price, Stock: stock}
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, env.DB.Create(p).Error)
	return p
}

func (env *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()

	u, err := env.Auth.Register(context.Background(), name, "secret1")
	require.NoError(t, err)
	return u
}

func (env *testEnv) stock(t *testing.T, id uint) int {
	t.Helper()

	var p models.Product
	require.NoError(t, env.DB.First(&p, id).Error)
	return p.Stock
}

func (env *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, env.DB.Model(model).Count(&n).Error)
	return n
}
