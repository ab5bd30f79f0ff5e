package address

import (
	"context"

	"shopstack/internal/domain"
)

type Repository interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]domain.Address, error)
	GetActiveByIDAndUser(ctx context.Context, id, userID int64) (*domain.Address, error)
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, a domain.Address) (*domain.Address, error)
	SetInactive(ctx context.Context, id, userID int64) error
	ClearDefault(ctx context.Context, userID int64) error
}
