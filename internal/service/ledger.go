package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type LedgerService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *LedgerService) requireProduct(ctx context.Context, productID uint) error {
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return storageErr("check product", err)
	}
	if !ok {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return nil
}

// AddWishlist is idempotent: adding a product twice keeps a single entry.
func (s *LedgerService) AddWishlist(ctx context.Context, userID, productID uint) error {
	if err := s.requireProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.Repo.AddWishlist(ctx, userID, productID); err != nil {
		logging.FromContext(ctx).Error("add_wishlist_error", "svc", "ledger.add_wishlist", "error", err)
		return storageErr("add wishlist", err)
	}
	return nil
}

func (s *LedgerService) RemoveWishlist(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveWishlist(ctx, userID, productID); err != nil {
		return storageErr("remove wishlist", err)
	}
	return nil
}

func (s *LedgerService) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items, err := s.Repo.ListWishlist(ctx, userID)
	if err != nil {
		return nil, storageErr("list wishlist", err)
	}
	return items, nil
}

// AddReview saves the user's single review of a product, replacing an earlier one.
func (s *LedgerService) AddReview(ctx context.Context, userID, productID uint, rating int, comment string) error {
	l := logging.FromContext(ctx).With("svc", "ledger.add_review")

	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return err
	}

	rev := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	if c := strings.TrimSpace(comment); c != "" {
		rev.Comment = &c
	}

	if err := s.Repo.UpsertReview(ctx, rev); err != nil {
		l.Error("add_review_error", "reason", "cannot upsert review", "error", err)
		return storageErr("save review", err)
	}

	publish(ctx, s.Events, events.TopicProductEvents, strconv.FormatUint(uint64(productID), 10),
		events.TypeReviewSaved, map[string]any{"product_id": productID, "user_id": userID, "rating": rating})
	return nil
}

func (s *LedgerService) ListReviews(ctx context.Context, productID uint) ([]models.ReviewView, error) {
	out, err := s.Repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, storageErr("list reviews", err)
	}
	return out, nil
}
