package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cache"
	svccfg "github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// backends are the optional infrastructure clients; each stays unset when it is not configured.
type backends struct {
	events   events.Publisher
	producer *events.Producer
	cache    *cache.Client
	search   *search.Client
	metrics  *metrics.Metrics
}

func openBackends(ctx context.Context, cfg svccfg.ServiceConfig, reg prometheus.Registerer) (*backends, error) {
	l := logging.FromContext(ctx)
	b := &backends{events: events.Nop{}}

	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		b.producer = p
		b.events = p
		l.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	if c := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); c != nil {
		if err := c.Ping(ctx); err != nil {
			l.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		}
		b.cache = c
	}

	if cfg.ESURL != "" {
		s, err := search.New(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			b.close()
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		b.search = s
		l.Info("search_enabled", "index", cfg.ESIndex)
	}

	if reg != nil {
		b.metrics = metrics.New(reg)
	}
	return b, nil
}

func (b *backends) index() service.ProductIndex {
	if b == nil || b.search == nil {
		return nil
	}
	return b.search
}

func (b *backends) close() {
	if b == nil {
		return
	}
	if b.producer != nil {
		_ = b.producer.Close()
	}
	if b.cache != nil {
		_ = b.cache.Close()
	}
}

// ready pings the database and, when configured, the search cluster.
func (b *backends) ready(r *repo.GormRepo) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := r.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if b != nil && b.search != nil {
			if err := b.search.Ping(ctx); err != nil {
				return fmt.Errorf("search: %w", err)
			}
		}
		return nil
	}
}

type app struct {
	cfg     svccfg.ServiceConfig
	repo    *repo.GormRepo
	auth    *service.AuthService
	catalog *service.CatalogService
	ledger  *service.LedgerService
	orders  *service.OrderService
	admin   *service.AdminService
}

func newApp(cfg svccfg.ServiceConfig, db *gorm.DB, b *backends) *app {
	if b == nil {
		b = &backends{events: events.Nop{}}
	}
	r := repo.New(db)

	return &app{
		cfg:  cfg,
		repo: r,
		auth: &service.AuthService{
			Repo:      r,
			Hasher:    hash.New(cfg.BcryptCost),
			Events:    b.events,
			JWTSecret: cfg.JWTAccessSecret,
			AccessTTL: cfg.AccessTokenTTL,
		},
		catalog: &service.CatalogService{Repo: r, Cache: b.cache, CacheTTL: cfg.CacheTTL, Index: b.index()},
		ledger:  &service.LedgerService{Repo: r, Events: b.events},
		orders:  &service.OrderService{Repo: r, Events: b.events, Metrics: b.metrics},
		admin:   &service.AdminService{Repo: r, Events: b.events, Cache: b.cache, Index: b.index()},
	}
}
