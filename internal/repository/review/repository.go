package review

import (
	"context"

	"shopstack/internal/domain"
)

type Repository interface {
	ListActiveByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]domain.Review, error)
	ListActiveByProductMinRating(ctx context.Context, productID int64, minRating int) ([]domain.Review, error)
	GetActiveByID(ctx context.Context, id int64) (*domain.Review, error)
	FindActiveByProductAndUser(ctx context.Context, productID, userID int64) (*domain.Review, error)
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Update(ctx context.Context, rv domain.Review) (*domain.Review, error)
	SetInactive(ctx context.Context, id int64) error
	AverageRating(ctx context.Context, productID int64) (float64, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
}
