package seed

import (
	"context"
	"fmt"

	"shopstack/internal/domain"
	categoryrepo "shopstack/internal/repository/category"
	productrepo "shopstack/internal/repository/product"
	"github.com/shopspring/decimal"
)

type productSeed struct {
	Name        string
	Description string
	Price       string
	Stock       int
	Category    string
}

// Apply inserts basic catalog data for manual testing. It is idempotent:
// categories are matched by name and products are upserted by name.
func Apply(ctx context.Context, categories categoryrepo.Repository, products productrepo.Repository) error {
	seeds := []productSeed{
		{
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			Price:       "19.99",
			Stock:       100,
			Category:    "Apparel",
		},
		{
			Name:        "Demo Mug",
			Description: "Ceramic mug with demo logo",
			Price:       "12.99",
			Stock:       50,
			Category:    "Kitchen",
		},
	}

	for _, s := range seeds {
		cat, err := categories.EnsureByName(ctx, s.Category)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", s.Category, err)
		}
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return fmt.Errorf("parse price for %s: %w", s.Name, err)
		}
		categoryID := cat.ID
		_, err = products.UpsertByName(ctx, domain.Product{
			Name:          s.Name,
			Description:   s.Description,
			Price:         price,
			StockQuantity: s.Stock,
			CategoryID:    &categoryID,
			Active:        true,
		})
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", s.Name, err)
		}
	}

	return nil
}
