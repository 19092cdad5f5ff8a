package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestLedger_WishlistIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "alice")
	p := env.product(t, "Air Max 270", 150, 3)

	require.NoError(t, env.Ledger.AddWishlist(ctx, u.ID, p.ID))
	require.NoError(t, env.Ledger.AddWishlist(ctx, u.ID, p.ID))

	var n int64
	require.NoError(t, env.DB.Model(&models.WishlistEntry{}).
		Where("user_id = ? AND product_id = ?", u.ID, p.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	require.NoError(t, env.Ledger.RemoveWishlist(ctx, u.ID, p.ID))
	require.NoError(t, env.Ledger.RemoveWishlist(ctx, u.ID, p.ID))
	assert.Zero(t, env.count(t, &models.WishlistEntry{}))
}

func TestLedger_WishlistUnknownProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.user(t, "alice")

	err := env.Ledger.AddWishlist(context.Background(), u.ID, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedger_ListWishlist(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	first := env.product(t, "Jordan Retro", 200, 3)
	second := env.product(t, "Metcon 9", 130, 3)

	require.NoError(t, env.Ledger.AddWishlist(ctx, alice.ID, first.ID))
	require.NoError(t, env.Ledger.AddWishlist(ctx, alice.ID, second.ID))
	require.NoError(t, env.Ledger.AddWishlist(ctx, bob.ID, first.ID))
	require.NoError(t, env.Ledger.AddReview(ctx, bob.ID, first.ID, 4, "nice"))

	items, err := env.Ledger.ListWishlist(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.InDelta(t, 4.0, items[1].AvgRating, 1e-9)
	assert.Zero(t, items[0].AvgRating)
	assert.False(t, items[0].AddedAt.IsZero())

	items, err = env.Ledger.ListWishlist(ctx, 777)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLedger_ReviewUpsert(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "alice")
	p := env.product(t, "Blazer Mid '77", 120, 30)

	require.NoError(t, env.Ledger.AddReview(ctx, u.ID, p.ID, 3, "ok"))
	require.NoError(t, env.Ledger.AddReview(ctx, u.ID, p.ID, 5, "better"))

	var reviews []models.Review
	require.NoError(t, env.DB.Where("user_id = ? AND product_id = ?", u.ID, p.ID).Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	require.NotNil(t, reviews[0].Comment)
	assert.Equal(t, "better", *reviews[0].Comment)

	view, err := env.Cat.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, view.AvgRating, 1e-9)
	assert.EqualValues(t, 1, view.ReviewCount)
}

func TestLedger_ReviewRejectsBadRating(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "alice")
	p := env.product(t, "Metcon 9", 130, 1)

	for _, rating := range []int{0, 6, -1} {
		err := env.Ledger.AddReview(ctx, u.ID, p.ID, rating, "x")
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, env.count(t, &models.Review{}))

	assert.ErrorIs(t, env.Ledger.AddReview(ctx, u.ID, 999, 4, ""), ErrNotFound)
}

func TestLedger_ListReviews(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.product(t, "Air Max 270", 150, 1)

	require.NoError(t, env.Ledger.AddReview(ctx, alice.ID, p.ID, 4, "comfy"))
	require.NoError(t, env.Ledger.AddReview(ctx, bob.ID, p.ID, 2, "  "))

	out, err := env.Ledger.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "bob", out[0].Username)
	assert.Equal(t, 2, out[0].Rating)
	assert.Nil(t, out[0].Comment)
	assert.Equal(t, "alice", out[1].Username)
	require.NotNil(t, out[1].Comment)
	assert.Equal(t, "comfy", *out[1].Comment)
}
