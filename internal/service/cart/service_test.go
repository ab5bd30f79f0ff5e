package cart

import (
	"context"
	"errors"
	"testing"

	"shopstack/internal/domain"
	"shopstack/internal/remote"
	"github.com/shopspring/decimal"
)

type stubRepo struct {
	lines        []domain.CartLine
	byProduct    *domain.CartLine
	byProductErr error
	created      *domain.CartLine
	updated      *domain.CartLine
	replaced     *domain.CartLine

	lastCreate      domain.CartLine
	lastUpdateID    int64
	lastUpdateQty   int
	lastReplaceID   int64
	lastReplaceProd int64
	lastReplaceQty  int
	deletedID       int64
	clearedUser     int64
}

func (s *stubRepo) ListByUser(context.Context, int64) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubRepo) GetByIDAndUser(_ context.Context, id, _ int64) (*domain.CartLine, error) {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return &s.lines[i], nil
		}
	}
	return nil, domain.NotFound("Cart item", "id", id)
}

func (s *stubRepo) GetByUserAndProduct(context.Context, int64, int64) (*domain.CartLine, error) {
	return s.byProduct, s.byProductErr
}

func (s *stubRepo) Create(_ context.Context, line domain.CartLine) (*domain.CartLine, error) {
	s.lastCreate = line
	if s.created != nil {
		return s.created, nil
	}
	return &line, nil
}

func (s *stubRepo) UpdateQuantity(_ context.Context, id int64, quantity int) (*domain.CartLine, error) {
	s.lastUpdateID = id
	s.lastUpdateQty = quantity
	if s.updated != nil {
		return s.updated, nil
	}
	return &domain.CartLine{ID: id, Quantity: quantity}, nil
}

func (s *stubRepo) Replace(_ context.Context, id, _, productID int64, quantity int) (*domain.CartLine, error) {
	s.lastReplaceID = id
	s.lastReplaceProd = productID
	s.lastReplaceQty = quantity
	if s.replaced != nil {
		return s.replaced, nil
	}
	return &domain.CartLine{ID: id, ProductID: productID, Quantity: quantity}, nil
}

func (s *stubRepo) Delete(_ context.Context, id, _ int64) error {
	s.deletedID = id
	return nil
}

func (s *stubRepo) DeleteByUser(_ context.Context, userID int64) error {
	s.clearedUser = userID
	return nil
}

func (s *stubRepo) CountByUser(context.Context, int64) (int64, error) {
	return int64(len(s.lines)), nil
}

type stubValidator struct {
	userErr    error
	productErr error
}

func (s *stubValidator) UserExists(context.Context, int64) error    { return s.userErr }
func (s *stubValidator) ProductExists(context.Context, int64) error { return s.productErr }

type stubFetcher struct {
	products map[int64]*remote.Product
}

func (s *stubFetcher) GetProduct(_ context.Context, id int64) (*remote.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, remote.ErrFetchFailed
	}
	return p, nil
}

func TestAddItem_CreatesWhenAbsent(t *testing.T) {
	repo := &stubRepo{byProductErr: domain.ErrNotFound}
	svc := New(repo, &stubValidator{}, &stubFetcher{}, nil)

	line, err := svc.AddItem(context.Background(), 1, AddInput{ProductID: 10, Quantity: 3})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if line.ProductID != 10 || line.Quantity != 3 {
		t.Fatalf("unexpected line %+v", line)
	}
	if repo.lastCreate.UserID != 1 {
		t.Fatalf("expected create for user 1, got %+v", repo.lastCreate)
	}
}

func TestAddItem_MergesAndAccumulates(t *testing.T) {
	repo := &stubRepo{byProduct: &domain.CartLine{ID: 5, UserID: 1, ProductID: 10, Quantity: 2}}
	svc := New(repo, &stubValidator{}, &stubFetcher{}, nil)

	line, err := svc.AddItem(context.Background(), 1, AddInput{ProductID: 10, Quantity: 3})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if repo.lastUpdateID != 5 || repo.lastUpdateQty != 5 {
		t.Fatalf("expected quantity 2+3 on line 5, got id=%d qty=%d", repo.lastUpdateID, repo.lastUpdateQty)
	}
	if line.Quantity != 5 {
		t.Fatalf("unexpected quantity %d", line.Quantity)
	}
}

func TestAddItem_RejectsUnknownProduct(t *testing.T) {
	repo := &stubRepo{}
	v := &stubValidator{productErr: domain.NotFound("Product", "id", int64(10))}
	svc := New(repo, v, &stubFetcher{}, nil)

	_, err := svc.AddItem(context.Background(), 1, AddInput{ProductID: 10, Quantity: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if repo.lastCreate.ProductID != 0 {
		t.Fatalf("line must not be created when product is unknown")
	}
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc := New(&stubRepo{}, &stubValidator{}, &stubFetcher{}, nil)

	var validation domain.ValidationError
	_, err := svc.AddItem(context.Background(), 1, AddInput{ProductID: 10, Quantity: 0})
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItem_ReplacesOutright(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, &stubValidator{}, &stubFetcher{}, nil)

	line, err := svc.UpdateItem(context.Background(), 1, 5, UpdateInput{ProductID: 20, Quantity: 4})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if repo.lastReplaceID != 5 || repo.lastReplaceProd != 20 || repo.lastReplaceQty != 4 {
		t.Fatalf("expected replace of line 5 with product 20 qty 4")
	}
	if line.Quantity != 4 {
		t.Fatalf("expected quantity replaced, not accumulated: %d", line.Quantity)
	}
}

func TestGet_BestEffortView(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	repo := &stubRepo{lines: []domain.CartLine{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
		{ID: 2, UserID: 1, ProductID: 11, Quantity: 1},
	}}
	fetcher := &stubFetcher{products: map[int64]*remote.Product{
		10: {ID: 10, Name: "Mug", Price: price, Active: true},
		// product 11 is unreachable
	}}
	svc := New(repo, &stubValidator{}, fetcher, nil)

	view, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected both lines in the view, got %d", len(view.Items))
	}

	withProduct := view.Items[0]
	if withProduct.Product == nil || withProduct.Subtotal == nil {
		t.Fatalf("expected product and subtotal on first line")
	}
	if !withProduct.Subtotal.Equal(price.Mul(decimal.NewFromInt(2))) {
		t.Fatalf("subtotal must be quantity times fresh price, got %s", withProduct.Subtotal)
	}

	degraded := view.Items[1]
	if degraded.Product != nil || degraded.Subtotal != nil {
		t.Fatalf("expected degraded line without price data, got %+v", degraded)
	}

	if !view.Total.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("total must cover only priced lines, got %s", view.Total)
	}
	if view.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", view.ItemCount)
	}
}

func TestRemoveAndClear(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, &stubValidator{}, &stubFetcher{}, nil)

	if err := svc.RemoveItem(context.Background(), 1, 5); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if repo.deletedID != 5 {
		t.Fatalf("expected delete of line 5, got %d", repo.deletedID)
	}

	if err := svc.Clear(context.Background(), 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if repo.clearedUser != 1 {
		t.Fatalf("expected clear for user 1, got %d", repo.clearedUser)
	}
}
