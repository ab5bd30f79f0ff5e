package product

import (
	"context"
	"strings"

	"shopstack/internal/domain"
	categoryrepo "shopstack/internal/repository/category"
	productrepo "shopstack/internal/repository/product"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo         productrepo.Repository
	categoryRepo categoryrepo.Repository
}

func New(repo productrepo.Repository, categoryRepo categoryrepo.Repository) *Service {
	return &Service{repo: repo, categoryRepo: categoryRepo}
}

type Input struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    *int64          `json:"categoryId"`
}

func (in Input) validate() error {
	fields := domain.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		fields["price"] = "price must be greater than zero"
	}
	if in.StockQuantity < 0 {
		fields["stockQuantity"] = "stock quantity must not be negative"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetActiveByID(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if _, err := s.categoryRepo.GetActiveByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.ListActiveByCategory(ctx, categoryID)
}

func (s *Service) Search(ctx context.Context, name string) ([]domain.Product, error) {
	return s.repo.SearchActiveByName(ctx, name)
}

func (s *Service) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error) {
	if min.GreaterThan(max) {
		return nil, domain.ValidationError{"minPrice": "minPrice must not exceed maxPrice"}
	}
	return s.repo.ListActiveByPriceRange(ctx, min, max)
}

func (s *Service) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetActiveByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		CategoryID:    in.CategoryID,
		Active:        true,
	})
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Product, error) {
	p, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetActiveByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.CategoryID = in.CategoryID
	return s.repo.Update(ctx, *p)
}

// Deactivate soft-deletes the product; carts and orders referencing it keep
// the id and degrade to a missing snapshot on composite reads.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetActiveByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetInactive(ctx, id)
}

func (s *Service) UpdateStock(ctx context.Context, id int64, stockQuantity int) (*domain.Product, error) {
	if stockQuantity < 0 {
		return nil, domain.ValidationError{"stockQuantity": "stock quantity must not be negative"}
	}
	return s.repo.UpdateStock(ctx, id, stockQuantity)
}
