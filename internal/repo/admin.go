package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) Metrics(ctx context.Context, lowStock int) (*models.AdminMetrics, error) {
	m := &models.AdminMetrics{LowStock: []models.LowStockProduct{}}
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&m.UserCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&m.OrderCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&m.ProductCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&m.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).
		Select("id, name, stock").
		Where("stock <= ?", lowStock).
		Order("stock ASC, id ASC").
		Scan(&m.LowStock).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// UpdateProduct applies column updates and returns the stored row.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, updates map[string]any) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&prod).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.First(&prod, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// DeleteProduct removes a product with its wishlist entries and reviews.
// Products referenced by order history are kept and ErrInUse is returned.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrInUse
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.WishlistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&prod).Error
	})
}
