package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const LowStockThreshold = 5

type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    *string `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
}

// ProductPatch carries only the fields to change; nil fields stay as they are.
// An empty Category clears the category.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
}

type AdminService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Cache  *cache.Client
	Index  ProductIndex
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func normCategory(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

func (s *AdminService) Metrics(ctx context.Context) (*models.AdminMetrics, error) {
	m, err := s.Repo.Metrics(ctx, LowStockThreshold)
	if err != nil {
		logging.FromContext(ctx).Error("admin_metrics_error", "svc", "admin.metrics", "error", err)
		return nil, storageErr("admin metrics", err)
	}
	return m, nil
}

func (s *AdminService) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	case !validPrice(in.Price):
		return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	case in.Stock < 0:
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
	}

	p := &models.Product{
		Name:        name,
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
		Category:    normCategory(in.Category),
		Description: strings.TrimSpace(in.Description),
		Stock:       in.Stock,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("add_product_error", "svc", "admin.add_product", "error", err)
		return nil, storageErr("create product", err)
	}

	s.productChanged(ctx, events.TypeProductCreated, p)
	return p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if patch.Price != nil {
		if !validPrice(*patch.Price) {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
		}
		updates["price"] = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
		}
		updates["stock"] = *patch.Stock
	}
	if patch.Image != nil {
		updates["image"] = strings.TrimSpace(*patch.Image)
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		updates["category"] = normCategory(patch.Category)
	}

	p, err := s.Repo.UpdateProduct(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		logging.FromContext(ctx).Error("update_product_error", "svc", "admin.update_product", "error", err)
		return nil, storageErr("update product", err)
	}

	s.productChanged(ctx, events.TypeProductUpdated, p)
	return p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		case errors.Is(err, repo.ErrInUse):
			return ErrProductInUse
		}
		logging.FromContext(ctx).Error("delete_product_error", "svc", "admin.delete_product", "error", err)
		return storageErr("delete product", err)
	}

	s.productChanged(ctx, events.TypeProductDeleted, &models.Product{ID: id})
	return nil
}

// productChanged fans a committed mutation out to the cache, the search index and the broker.
func (s *AdminService) productChanged(ctx context.Context, typ string, p *models.Product) {
	l := logging.FromContext(ctx).With("svc", "admin.product_changed", "product_id", p.ID)

	s.Cache.Delete(ctx, cache.KeyPriceBounds, cache.KeyCategories)

	if s.Index != nil {
		var err error
		if typ == events.TypeProductDeleted {
			err = s.Index.DeleteProduct(ctx, p.ID)
		} else {
			err = s.Index.IndexProduct(ctx, *p)
		}
		if err != nil {
			l.Warn("search_index_failed", "type", typ, "error", err)
		}
	}

	data := map[string]any{"product_id": p.ID}
	if typ != events.TypeProductDeleted {
		data["name"] = p.Name
		data["price"] = p.Price
		data["stock"] = p.Stock
	}
	publish(ctx, s.Events, events.TopicProductEvents, strconv.FormatUint(uint64(p.ID), 10), typ, data)
}
