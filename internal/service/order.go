package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// CartLine is the caller's snapshot of one cart row; UnitPrice is what the buyer saw.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

func (c CartLine) label() string {
	if c.Name != "" {
		return c.Name
	}
	return "product " + strconv.FormatUint(uint64(c.ProductID), 10)
}

type OrderService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics *metrics.Metrics
}

func validateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for i, line := range lines {
		switch {
		case line.ProductID == 0:
			return fmt.Errorf("%w: line %d: product_id required", ErrInvalidInput, i+1)
		case line.Quantity < 1:
			return fmt.Errorf("%w: line %d: quantity must be >= 1", ErrInvalidInput, i+1)
		case line.UnitPrice < 0 || math.IsNaN(line.UnitPrice) || math.IsInf(line.UnitPrice, 0):
			return fmt.Errorf("%w: line %d: unit price must be >= 0", ErrInvalidInput, i+1)
		}
	}
	return nil
}

func cartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// PlaceOrder validates the cart against live stock and, in one transaction, stores the
// order with its items and decrements stock. Nothing is written unless every line fits.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, lines []CartLine) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place_order", "user_id", userID)

	if err := validateCart(lines); err != nil {
		if errors.Is(err, ErrEmptyCart) {
			s.Metrics.OrderFailed("empty_cart")
		} else {
			s.Metrics.OrderFailed("invalid_input")
		}
		return nil, err
	}

	requested := make(map[uint]int, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if _, seen := requested[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		products, err := tx.ProductsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, line := range lines {
			p, ok := products[line.ProductID]
			if !ok {
				return &StockError{ProductID: line.ProductID, Name: line.label(), Requested: requested[line.ProductID]}
			}
			if p.Stock < requested[line.ProductID] {
				return &StockError{ProductID: p.ID, Name: p.Name, Requested: requested[p.ID], Available: p.Stock}
			}
		}

		o := &models.Order{
			UserID: userID,
			Total:  cartTotal(lines).InexactFloat64(),
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		for _, line := range lines {
			item := models.OrderItem{
				OrderID:   o.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				PriceEach: line.UnitPrice,
			}
			if err := tx.CreateOrderItem(ctx, &item); err != nil {
				return err
			}

			ok, err := tx.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				p := products[line.ProductID]
				return &StockError{ProductID: p.ID, Name: p.Name, Requested: requested[p.ID]}
			}
			o.Items = append(o.Items, item)
		}

		order = o
		return nil
	})
	if err != nil {
		var stockErr *StockError
		if errors.As(err, &stockErr) {
			s.Metrics.OrderFailed("insufficient_stock")
			l.Warn("place_order_rejected", "reason", "insufficient stock", "product_id", stockErr.ProductID)
			return nil, stockErr
		}
		s.Metrics.OrderFailed("storage")
		l.Error("place_order_error", "reason", "transaction rolled back", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	s.Metrics.OrderPlaced(order.Total)
	l.Info("order_placed", "order_id", order.ID, "total", order.Total)

	items := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, map[string]any{"product_id": it.ProductID, "quantity": it.Quantity, "price_each": it.PriceEach})
	}
	publish(ctx, s.Events, events.TopicOrderEvents, strconv.FormatUint(uint64(order.ID), 10),
		events.TypeOrderPlaced, map[string]any{"order_id": order.ID, "user_id": userID, "total": order.Total, "items": items})

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, storageErr("get order", err)
	}
	return order, nil
}

// OrderItems lists the lines of an order with the product name and image.
func (s *OrderService) OrderItems(ctx context.Context, orderID uint) ([]models.OrderItemView, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	items, err := s.Repo.OrderItems(ctx, orderID)
	if err != nil {
		return nil, storageErr("order items", err)
	}
	return items, nil
}
