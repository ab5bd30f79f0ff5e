package product

import (
	"context"

	"shopstack/internal/domain"
	"github.com/shopspring/decimal"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetActiveByID(ctx context.Context, id int64) (*domain.Product, error)
	ListActiveByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	SearchActiveByName(ctx context.Context, name string) ([]domain.Product, error)
	ListActiveByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error)
	ListAvailable(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetInactive(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, stockQuantity int) (*domain.Product, error)
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, error)
}
