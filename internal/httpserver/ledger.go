package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type LedgerHTTP struct {
	Svc *service.LedgerService
}

func (h *LedgerHTTP) ListWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.list_wishlist")

	uid, err := userID(c)
	if err != nil {
		l.Warn("list_wishlist_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.ListWishlist(ctx, uid)
	if err != nil {
		return fail(l, "list_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items})
}

func (h *LedgerHTTP) AddWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.add_wishlist")

	uid, err := userID(c)
	if err != nil {
		l.Warn("add_wishlist_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	pid, ok := pathID(c, "product_id")
	if !ok {
		l.Warn("add_wishlist_error", "status", 400, "reason", "product id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "product id is not a positive integer")
	}

	if err := h.Svc.AddWishlist(ctx, uid, pid); err != nil {
		return fail(l, "add_wishlist_error", err)
	}

	l.Info("add_wishlist_success", "user_id", uid, "product_id", pid)
	return c.JSON(http.StatusOK, transport.OK("Added to wishlist."))
}

func (h *LedgerHTTP) RemoveWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.remove_wishlist")

	uid, err := userID(c)
	if err != nil {
		l.Warn("remove_wishlist_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	pid, ok := pathID(c, "product_id")
	if !ok {
		l.Warn("remove_wishlist_error", "status", 400, "reason", "product id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "product id is not a positive integer")
	}

	if err := h.Svc.RemoveWishlist(ctx, uid, pid); err != nil {
		return fail(l, "remove_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK("Removed from wishlist."))
}

func (h *LedgerHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.list_reviews")

	pid, ok := pathID(c, "id")
	if !ok {
		l.Warn("list_reviews_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	reviews, err := h.Svc.ListReviews(ctx, pid)
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": reviews})
}

func (h *LedgerHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.add_review")

	uid, err := userID(c)
	if err != nil {
		l.Warn("add_review_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	pid, ok := pathID(c, "id")
	if !ok {
		l.Warn("add_review_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_review_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.AddReview(ctx, uid, pid, req.Rating, req.Comment); err != nil {
		return fail(l, "add_review_error", err)
	}

	l.Info("add_review_success", "user_id", uid, "product_id", pid)
	return c.JSON(http.StatusOK, transport.OK("Review saved."))
}
