package models

import "time"

const UncategorizedLabel = "Uncategorized"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:64"    json:"username"`
	PasswordHash string    `gorm:"not null"                        json:"-"`
	PasswordSalt string    `gorm:"not null"                        json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"          json:"is_admin"`
	CreatedAt    time.Time `gorm:"autoCreateTime"                  json:"created_at"`
}

func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name        string    `gorm:"not null;index"                    json:"name"`
	Price       float64   `gorm:"not null;check:price >= 0"         json:"price"`
	Image       string    `gorm:"not null;default:''"               json:"image"`
	Category    *string   `gorm:"index"                             json:"category"`
	Description string    `gorm:"not null;default:''"               json:"description"`
	Stock       int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"              json:"created_at"`
}

func (p *Product) CategoryLabel() string {
	if p.Category == nil || *p.Category == "" {
		return UncategorizedLabel
	}
	return *p.Category
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                           json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product"      json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"         json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `gorm:"not null"                                           json:"created_at"`
}

type WishlistEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                        json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product"  json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product"  json:"product_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                                  json:"created_at"`
}

func (WishlistEntry) TableName() string { return "wishlist" }

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"   json:"id"`
	UserID    uint        `gorm:"index;not null"             json:"user_id"`
	Total     float64     `gorm:"not null"                   json:"total"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index"       json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"         json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"      json:"id"`
	OrderID   uint    `gorm:"index;not null"                json:"order_id"`
	ProductID uint    `gorm:"index;not null"                json:"product_id"`
	Quantity  int     `gorm:"not null;check:quantity >= 1"  json:"quantity"`
	PriceEach float64 `gorm:"not null"                      json:"price_each"`
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Review{},
		&WishlistEntry{},
		&Order{},
		&OrderItem{},
	}
}
