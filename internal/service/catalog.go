package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	CategoryAll     = "All"
	defaultCacheTTL = 5 * time.Minute
)

// ProductIndex is the full-text index kept in sync with the catalog.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) ([]uint, int64, error)
}

type ProductFilter struct {
	Search   string
	Category string
	PriceMin *float64
	PriceMax *float64
	SortBy   string
	Page     int
	PageSize int
}

type ProductPage struct {
	Items    []models.ProductView `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Empty reports the (0,0) bounds of an empty catalog, which mean "no bound".
func (b PriceBounds) Empty() bool { return b.Min == 0 && b.Max == 0 }

type CatalogService struct {
	Repo     *repo.GormRepo
	Cache    *cache.Client
	CacheTTL time.Duration
	Index    ProductIndex
}

func (s *CatalogService) ttl() time.Duration {
	if s.CacheTTL <= 0 {
		return defaultCacheTTL
	}
	return s.CacheTTL
}

func validPage(page, size int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if size < 1 || size > util.MaxPageSize {
		return fmt.Errorf("%w: page size must be between 1 and %d", ErrInvalidInput, util.MaxPageSize)
	}
	return nil
}

func validBound(v *float64) bool {
	return v == nil || (!math.IsNaN(*v) && !math.IsInf(*v, 0))
}

func (s *CatalogService) ListProducts(ctx context.Context, f ProductFilter) (*ProductPage, error) {
	if err := validPage(f.Page, f.PageSize); err != nil {
		return nil, err
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = repo.SortNewest
	}
	if !repo.ValidSort(sortBy) {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, f.SortBy)
	}
	if !validBound(f.PriceMin) || !validBound(f.PriceMax) {
		return nil, fmt.Errorf("%w: price bound is not a number", ErrInvalidInput)
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return nil, fmt.Errorf("%w: price_min is greater than price_max", ErrInvalidInput)
	}

	q := repo.ProductQuery{
		Search:   strings.TrimSpace(f.Search),
		PriceMin: f.PriceMin,
		PriceMax: f.PriceMax,
		Sort:     sortBy,
	}
	switch category := strings.TrimSpace(f.Category); category {
	case "", CategoryAll:
	case models.UncategorizedLabel:
		q.Uncategorized = true
	default:
		q.Category = category
	}
	q.Offset, q.Limit = util.Calculate(f.Page, f.PageSize)

	items, total, err := s.Repo.ListProducts(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "svc", "catalog.list_products", "error", err)
		return nil, storageErr("list products", err)
	}

	return &ProductPage{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.ProductView, error) {
	view, err := s.Repo.GetProductView(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, storageErr("get product", err)
	}
	return view, nil
}

func (s *CatalogService) PriceBounds(ctx context.Context) (PriceBounds, error) {
	var b PriceBounds
	if s.Cache.GetJSON(ctx, cache.KeyPriceBounds, &b) {
		return b, nil
	}

	lo, hi, err := s.Repo.PriceBounds(ctx)
	if err != nil {
		return PriceBounds{}, storageErr("price bounds", err)
	}
	b = PriceBounds{Min: lo, Max: hi}
	s.Cache.SetJSON(ctx, cache.KeyPriceBounds, b, s.ttl())
	return b, nil
}

// Categories returns the sorted distinct categories with "All" in front.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if s.Cache.GetJSON(ctx, cache.KeyCategories, &cats) {
		return cats, nil
	}

	labels, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, storageErr("categories", err)
	}
	sort.Strings(labels)

	cats = make([]string, 0, len(labels)+1)
	cats = append(cats, CategoryAll)
	cats = append(cats, labels...)

	s.Cache.SetJSON(ctx, cache.KeyCategories, cats, s.ttl())
	return cats, nil
}

// Search runs a fuzzy full-text query when an index is configured and falls back to
// a name substring match otherwise.
func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (*ProductPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}
	if err := validPage(page, size); err != nil {
		return nil, err
	}
	if s.Index == nil {
		return s.ListProducts(ctx, ProductFilter{Search: query, Page: page, PageSize: size})
	}

	from, limit := util.Calculate(page, size)
	ids, total, err := s.Index.Search(ctx, query, from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search_error", "svc", "catalog.search", "error", err)
		return nil, storageErr("search index", err)
	}
	items, err := s.Repo.ProductViewsByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("load search hits", err)
	}
	return &ProductPage{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *CatalogService) Invalidate(ctx context.Context) {
	s.Cache.Delete(ctx, cache.KeyPriceBounds, cache.KeyCategories)
}
