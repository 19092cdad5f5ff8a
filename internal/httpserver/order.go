package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	uid, err := userID(c)
	if err != nil {
		l.Warn("place_order_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	lines := make([]service.CartLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	order, err := h.Svc.PlaceOrder(ctx, uid, lines)
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.OKWithID(fmt.Sprintf("Order placed. (Order #%d)", order.ID), order.ID))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	uid, err := userID(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListOrders(ctx, uid)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": orders})
}

// OrderItems answers 404 for orders of other users unless the caller is an admin.
func (h *OrderHTTP) OrderItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.order_items")

	uid, err := userID(c)
	if err != nil {
		l.Warn("order_items_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	oid, ok := pathID(c, "id")
	if !ok {
		l.Warn("order_items_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	order, err := h.Svc.GetOrder(ctx, oid)
	if err != nil {
		return fail(l, "order_items_error", err)
	}
	if order.UserID != uid && !isAdmin(c) {
		l.Warn("order_items_error", "status", 404, "reason", "order of another user", "order_id", oid)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := h.Svc.OrderItems(ctx, oid)
	if err != nil {
		return fail(l, "order_items_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items})
}
