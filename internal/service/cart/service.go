package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"shopstack/internal/domain"
	"shopstack/internal/remote"
	cartrepo "shopstack/internal/repository/cart"
	"github.com/shopspring/decimal"
)

type validator interface {
	UserExists(ctx context.Context, userID int64) error
	ProductExists(ctx context.Context, productID int64) error
}

type productFetcher interface {
	GetProduct(ctx context.Context, productID int64) (*remote.Product, error)
}

type Service struct {
	repo      cartrepo.Repository
	validator validator
	fetcher   productFetcher
	logger    *log.Logger
}

func New(repo cartrepo.Repository, v validator, fetcher productFetcher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, validator: v, fetcher: fetcher, logger: logger}
}

type AddInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type UpdateInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// LineView decorates a stored cart line with a fresh product snapshot.
// Product and Subtotal are nil when the product service could not confirm
// the id; the line itself is always returned.
type LineView struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *remote.Product  `json:"product,omitempty"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
}

// View is the composite cart for one user. Total covers only the lines whose
// product snapshot was available.
type View struct {
	UserID    int64           `json:"userId"`
	Items     []LineView      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Get assembles the user's cart best-effort: each line's product is fetched
// fresh, and lines whose fetch fails are returned without price data rather
// than failing the whole read.
func (s *Service) Get(ctx context.Context, userID int64) (*View, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &View{UserID: userID, Items: make([]LineView, 0, len(lines))}
	for _, line := range lines {
		item := LineView{ID: line.ID, ProductID: line.ProductID, Quantity: line.Quantity}
		p, err := s.fetcher.GetProduct(ctx, line.ProductID)
		if err != nil {
			s.logger.Printf("cart service: product snapshot product_id=%d error=%v", line.ProductID, err)
		} else {
			subtotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			item.Product = p
			item.Subtotal = &subtotal
			view.Total = view.Total.Add(subtotal)
		}
		view.Items = append(view.Items, item)
		view.ItemCount += line.Quantity
	}
	return view, nil
}

// AddItem merges into an existing line for the same product, accumulating
// quantity; otherwise it creates a new line.
func (s *Service) AddItem(ctx context.Context, userID int64, in AddInput) (*domain.CartLine, error) {
	if in.Quantity < 1 {
		return nil, domain.ValidationError{"quantity": "quantity must be at least 1"}
	}
	if err := s.validator.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.validator.ProductExists(ctx, in.ProductID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndProduct(ctx, userID, in.ProductID)
	switch {
	case err == nil:
		return s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+in.Quantity)
	case errors.Is(err, domain.ErrNotFound):
		return s.repo.Create(ctx, domain.CartLine{UserID: userID, ProductID: in.ProductID, Quantity: in.Quantity})
	default:
		return nil, err
	}
}

// UpdateItem replaces the line's product and quantity outright; quantities
// are not accumulated here.
func (s *Service) UpdateItem(ctx context.Context, userID, lineID int64, in UpdateInput) (*domain.CartLine, error) {
	if in.Quantity < 1 {
		return nil, domain.ValidationError{"quantity": "quantity must be at least 1"}
	}
	if err := s.validator.ProductExists(ctx, in.ProductID); err != nil {
		return nil, err
	}
	return s.repo.Replace(ctx, lineID, userID, in.ProductID, in.Quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, lineID int64) error {
	return s.repo.Delete(ctx, lineID, userID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *Service) Count(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountByUser(ctx, userID)
}
