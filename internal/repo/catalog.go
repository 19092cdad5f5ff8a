package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	SortNewest     = "newest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
)

const (
	avgRatingExpr   = "(SELECT CAST(COALESCE(AVG(rv.rating), 0) AS DOUBLE PRECISION) FROM reviews rv WHERE rv.product_id = products.id)"
	reviewCountExpr = "(SELECT COUNT(*) FROM reviews rv WHERE rv.product_id = products.id)"

	productViewSelect = "products.*, " + avgRatingExpr + " AS avg_rating, " + reviewCountExpr + " AS review_count"
)

var productOrder = map[string]string{
	SortNewest:     "products.created_at DESC, products.id ASC",
	SortPriceAsc:   "products.price ASC, products.id ASC",
	SortPriceDesc:  "products.price DESC, products.id ASC",
	SortRatingDesc: "avg_rating DESC, products.id ASC",
}

// ProductQuery is an already validated product listing request.
type ProductQuery struct {
	Search        string
	Category      string
	Uncategorized bool
	PriceMin      *float64
	PriceMax      *float64
	Sort          string
	Offset        int
	Limit         int
}

func ValidSort(s string) bool {
	_, ok := productOrder[s]
	return ok
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) filteredProducts(ctx context.Context, q ProductQuery) *gorm.DB {
	db := r.DB.WithContext(ctx).Table("products")

	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		db = db.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, pattern)
	}
	switch {
	case q.Uncategorized:
		db = db.Where("products.category IS NULL OR products.category = ''")
	case q.Category != "":
		db = db.Where("products.category = ?", q.Category)
	}
	if q.PriceMin != nil {
		db = db.Where("products.price >= ?", *q.PriceMin)
	}
	if q.PriceMax != nil {
		db = db.Where("products.price <= ?", *q.PriceMax)
	}
	return db
}

func (r *GormRepo) ListProducts(ctx context.Context, q ProductQuery) ([]models.ProductView, int64, error) {
	var total int64
	if err := r.filteredProducts(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := productOrder[q.Sort]
	if !ok {
		order = productOrder[SortNewest]
	}

	items := make([]models.ProductView, 0, q.Limit)
	if err := r.filteredProducts(ctx, q).
		Select(productViewSelect).
		Order(order).
		Offset(q.Offset).
		Limit(q.Limit).
		Scan(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *GormRepo) GetProductView(ctx context.Context, id uint) (*models.ProductView, error) {
	var view models.ProductView
	if err := r.DB.WithContext(ctx).
		Table("products").
		Select(productViewSelect).
		Where("products.id = ?", id).
		Take(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// ProductViewsByIDs keeps the order of ids and silently skips ids that no longer exist.
func (r *GormRepo) ProductViewsByIDs(ctx context.Context, ids []uint) ([]models.ProductView, error) {
	if len(ids) == 0 {
		return []models.ProductView{}, nil
	}

	var found []models.ProductView
	if err := r.DB.WithContext(ctx).
		Table("products").
		Select(productViewSelect).
		Where("products.id IN ?", ids).
		Scan(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.ProductView, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	out := make([]models.ProductView, 0, len(found))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *GormRepo) PriceBounds(ctx context.Context) (float64, float64, error) {
	var row struct {
		MinPrice float64
		MaxPrice float64
	}
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(MIN(price), 0) AS min_price, COALESCE(MAX(price), 0) AS max_price").
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.MinPrice, row.MaxPrice, nil
}

// Categories returns distinct category labels with NULL and empty values collapsed.
func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := r.DB.WithContext(ctx).
		Raw("SELECT DISTINCT COALESCE(NULLIF(category, ''), ?) AS label FROM products", models.UncategorizedLabel).
		Scan(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
