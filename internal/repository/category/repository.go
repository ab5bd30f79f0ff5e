package category

import (
	"context"

	"shopstack/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
	GetActiveByID(ctx context.Context, id int64) (*domain.Category, error)
	ExistsActiveByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	SetInactive(ctx context.Context, id int64) error
	EnsureByName(ctx context.Context, name string) (*domain.Category, error)
}
