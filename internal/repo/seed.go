package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// SeedProducts inserts products only into an empty catalog and returns how many were added.
func (r *GormRepo) SeedProducts(ctx context.Context, products []models.Product) (int, error) {
	added := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 || len(products) == 0 {
			return nil
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		added = len(products)
		return nil
	})
	return added, err
}
