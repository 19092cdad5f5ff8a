package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func strPtr(s string) *string { return &s }

// DemoProducts is the starter catalog inserted into an empty database.
func DemoProducts() []models.Product {
	return []models.Product{
		{Name: "Air Max 270", Price: 150, Image: "https://images.unsplash.com/photo-1606813903134-45c28b953b3f", Category: strPtr("Running"), Description: "Breathable mesh with bold Air cushioning.", Stock: 25},
		{Name: "Jordan Retro", Price: 200, Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff", Category: strPtr("Basketball"), Description: "Iconic style meets modern support.", Stock: 18},
		{Name: "Blazer Mid '77", Price: 120, Image: "https://images.unsplash.com/photo-1595950653171-47c33e5f1d6e", Category: strPtr("Casual"), Description: "Vintage vibes with everyday comfort.", Stock: 30},
		{Name: "Pegasus Trail 4", Price: 140, Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?ixlib=rb-4.0.3", Category: strPtr("Trail"), Description: "Grip and glide for off-road miles.", Stock: 15},
		{Name: "Metcon 9", Price: 130, Image: "https://images.unsplash.com/photo-1600180758890-6b94519a8ba6", Category: strPtr("Training"), Description: "Stable platform for heavy lifts.", Stock: 22},
		{Name: "ZoomX Vaporfly", Price: 250, Image: "https://images.unsplash.com/photo-1519741497674-611481863552", Category: strPtr("Racing"), Description: "Featherweight speed with propulsive foam.", Stock: 10},
	}
}

// SeedCatalog fills an empty catalog with DemoProducts and returns how many were added.
func (s *AdminService) SeedCatalog(ctx context.Context) (int, error) {
	products := DemoProducts()
	n, err := s.Repo.SeedProducts(ctx, products)
	if err != nil {
		return 0, storageErr("seed products", err)
	}
	if n == 0 {
		return 0, nil
	}

	for i := range products {
		s.productChanged(ctx, events.TypeProductCreated, &products[i])
	}
	logging.FromContext(ctx).Info("catalog_seeded", "svc", "admin.seed_catalog", "products", n)
	return n, nil
}
