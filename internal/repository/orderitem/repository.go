package orderitem

import (
	"context"

	"shopstack/internal/domain"
)

type Repository interface {
	ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	GetByID(ctx context.Context, id int64) (*domain.OrderItem, error)
	FindByOrderAndProduct(ctx context.Context, orderID, productID int64) (*domain.OrderItem, error)
	Create(ctx context.Context, item domain.OrderItem) (*domain.OrderItem, error)
	Update(ctx context.Context, item domain.OrderItem) (*domain.OrderItem, error)
	Delete(ctx context.Context, id int64) error
}
