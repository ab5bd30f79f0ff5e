package review

import (
	"context"
	"errors"

	"shopstack/internal/domain"
	reviewrepo "shopstack/internal/repository/review"
)

type validator interface {
	UserExists(ctx context.Context, userID int64) error
	ProductExists(ctx context.Context, productID int64) error
}

type Service struct {
	repo      reviewrepo.Repository
	validator validator
}

func New(repo reviewrepo.Repository, v validator) *Service {
	return &Service{repo: repo, validator: v}
}

type CreateInput struct {
	ProductID int64  `json:"productId"`
	UserID    int64  `json:"userId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

type UpdateInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Stats aggregates the active reviews of one product.
type Stats struct {
	ProductID     int64   `json:"productId"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

func validRating(rating int) bool { return rating >= 1 && rating <= 5 }

func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.repo.ListActiveByProduct(ctx, productID)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.repo.ListActiveByUser(ctx, userID)
}

func (s *Service) ListHighRated(ctx context.Context, productID int64, minRating int) ([]domain.Review, error) {
	if !validRating(minRating) {
		return nil, domain.ValidationError{"minRating": "rating must be between 1 and 5"}
	}
	return s.repo.ListActiveByProductMinRating(ctx, productID, minRating)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.repo.GetActiveByID(ctx, id)
}

// Create enforces one active review per (product, user). A soft-deleted
// review does not block a new one.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Review, error) {
	if !validRating(in.Rating) {
		return nil, domain.ValidationError{"rating": "rating must be between 1 and 5"}
	}
	if err := s.validator.ProductExists(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if err := s.validator.UserExists(ctx, in.UserID); err != nil {
		return nil, err
	}

	_, err := s.repo.FindActiveByProductAndUser(ctx, in.ProductID, in.UserID)
	if err == nil {
		return nil, domain.DuplicateWithMessage("Review", "user has already reviewed this product")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.repo.Create(ctx, domain.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
	})
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Review, error) {
	if !validRating(in.Rating) {
		return nil, domain.ValidationError{"rating": "rating must be between 1 and 5"}
	}
	rv, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rv.Rating = in.Rating
	rv.Title = in.Title
	rv.Comment = in.Comment
	return s.repo.Update(ctx, *rv)
}

// Delete soft-deletes the review, freeing the (product, user) pair for a
// future review.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SetInactive(ctx, id)
}

func (s *Service) AverageRating(ctx context.Context, productID int64) (float64, error) {
	return s.repo.AverageRating(ctx, productID)
}

func (s *Service) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	return s.repo.CountByProduct(ctx, productID)
}

func (s *Service) ProductStats(ctx context.Context, productID int64) (*Stats, error) {
	avg, err := s.repo.AverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &Stats{ProductID: productID, AverageRating: avg, ReviewCount: count}, nil
}
