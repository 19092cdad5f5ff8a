package models

import "time"

// ProductView is a product with its review aggregates computed at read time.
type ProductView struct {
	Product
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}

type WishlistItem struct {
	Product
	AvgRating float64   `json:"avg_rating"`
	AddedAt   time.Time `json:"added_at"`
}

type ReviewView struct {
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItemView struct {
	OrderItem
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
}

type LowStockProduct struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type AdminMetrics struct {
	UserCount    int64             `json:"user_count"`
	OrderCount   int64             `json:"order_count"`
	TotalRevenue float64           `json:"total_revenue"`
	ProductCount int64             `json:"product_count"`
	LowStock     []LowStockProduct `json:"low_stock"`
}
