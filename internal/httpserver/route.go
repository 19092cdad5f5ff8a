package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	LedgerHandler  *LedgerHTTP
	OrderHandler   *OrderHTTP
	AdminHandler   *AdminHTTP
	JWTSecret      []byte

	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	authMW := middleware.NewJWTAuth(d.JWTSecret)
	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/password", d.AuthHandler.ChangePassword, authMW.RequireAuth)

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.Search)
	products.GET("/price-bounds", d.CatalogHandler.PriceBounds)
	products.GET("/categories", d.CatalogHandler.Categories)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/:id/reviews", d.LedgerHandler.ListReviews)
	products.POST("/:id/reviews", d.LedgerHandler.AddReview, authMW.RequireAuth)

	wishlist := v1.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("", d.LedgerHandler.ListWishlist)
	wishlist.POST("/:product_id", d.LedgerHandler.AddWishlist)
	wishlist.DELETE("/:product_id", d.LedgerHandler.RemoveWishlist)

	orders := v1.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id/items", d.OrderHandler.OrderItems)

	admin := v1.Group("/admin", authMW.RequireAdmin)
	admin.GET("/metrics", d.AdminHandler.Metrics)
	admin.POST("/products", d.AdminHandler.CreateProduct)
	admin.PATCH("/products/:id", d.AdminHandler.PatchProduct)
	admin.DELETE("/products/:id", d.AdminHandler.DeleteProduct)
}

