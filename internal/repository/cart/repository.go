package cart

import (
	"context"

	"shopstack/internal/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.CartLine, error)
	GetByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartLine, error)
	Create(ctx context.Context, line domain.CartLine) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*domain.CartLine, error)
	Replace(ctx context.Context, id, userID, productID int64, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, id, userID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
