package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) AddWishlist(ctx context.Context, userID, productID uint) error {
	entry := models.WishlistEntry{UserID: userID, ProductID: productID}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

func (r *GormRepo) RemoveWishlist(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistEntry{}).Error
}

func (r *GormRepo) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	if err := r.DB.WithContext(ctx).
		Table("wishlist").
		Select("products.*, "+avgRatingExpr+" AS avg_rating, wishlist.created_at AS added_at").
		Joins("JOIN products ON products.id = wishlist.product_id").
		Where("wishlist.user_id = ?", userID).
		Order("wishlist.created_at DESC, wishlist.id DESC").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertReview inserts rev or overwrites rating, comment and timestamp of the existing
// review for the same user and product.
func (r *GormRepo) UpsertReview(ctx context.Context, rev *models.Review) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "created_at"}),
		}).
		Create(rev).Error
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uint) ([]models.ReviewView, error) {
	out := []models.ReviewView{}
	if err := r.DB.WithContext(ctx).
		Table("reviews").
		Select("users.username, reviews.rating, reviews.comment, reviews.created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
