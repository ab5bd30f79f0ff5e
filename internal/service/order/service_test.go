package order

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"shopstack/internal/domain"
	"shopstack/internal/remote"
	"github.com/shopspring/decimal"
)

type stubOrderRepo struct {
	orders map[int64]domain.Order
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[int64]domain.Order{}, nextID: 1}
}

func (s *stubOrderRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	o.ID = s.nextID
	s.nextID++
	s.orders[o.ID] = o
	return &o, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NotFound("Order", "id", id)
	}
	return &o, nil
}

func (s *stubOrderRepo) GetByIDAndUser(_ context.Context, id, userID int64) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok || o.UserID != userID {
		return nil, domain.NotFound("Order", "id", id)
	}
	return &o, nil
}

func (s *stubOrderRepo) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.OrderNumber == number {
			return &o, nil
		}
	}
	return nil, domain.NotFound("Order", "orderNumber", number)
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) ListByStatus(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NotFound("Order", "id", id)
	}
	o.Status = status
	s.orders[id] = o
	return &o, nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NotFound("Order", "id", id)
	}
	o.PaymentStatus = status
	s.orders[id] = o
	return &o, nil
}

func (s *stubOrderRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NotFound("Order", "id", id)
	}
	o.TotalAmount = total
	s.orders[id] = o
	return &o, nil
}

type stubItemRepo struct {
	items  map[int64]domain.OrderItem
	nextID int64
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: map[int64]domain.OrderItem{}, nextID: 1}
}

func (s *stubItemRepo) ListByOrder(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	for _, item := range s.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubItemRepo) GetByID(_ context.Context, id int64) (*domain.OrderItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, domain.NotFound("OrderItem", "id", id)
	}
	return &item, nil
}

func (s *stubItemRepo) FindByOrderAndProduct(_ context.Context, orderID, productID int64) (*domain.OrderItem, error) {
	for _, item := range s.items {
		if item.OrderID == orderID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubItemRepo) Create(_ context.Context, item domain.OrderItem) (*domain.OrderItem, error) {
	item.ID = s.nextID
	s.nextID++
	s.items[item.ID] = item
	return &item, nil
}

func (s *stubItemRepo) Update(_ context.Context, item domain.OrderItem) (*domain.OrderItem, error) {
	if _, ok := s.items[item.ID]; !ok {
		return nil, domain.NotFound("OrderItem", "id", item.ID)
	}
	s.items[item.ID] = item
	return &item, nil
}

func (s *stubItemRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return domain.NotFound("OrderItem", "id", id)
	}
	delete(s.items, id)
	return nil
}

type stubValidator struct {
	userErr    error
	addressErr error
}

func (s *stubValidator) UserExists(context.Context, int64) error { return s.userErr }
func (s *stubValidator) AddressExists(context.Context, int64, int64) error {
	return s.addressErr
}

type stubFetcher struct {
	users    map[int64]*remote.User
	products map[int64]*remote.Product
	address  *remote.Address
}

func (s *stubFetcher) GetUser(_ context.Context, id int64) (*remote.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, remote.ErrFetchFailed
}

func (s *stubFetcher) GetProduct(_ context.Context, id int64) (*remote.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, remote.ErrFetchFailed
}

func (s *stubFetcher) GetAddress(context.Context, int64, int64) (*remote.Address, error) {
	if s.address != nil {
		return s.address, nil
	}
	return nil, remote.ErrFetchFailed
}

type capturedEvent struct {
	eventType string
	order     domain.Order
}

type stubPublisher struct {
	events []capturedEvent
	err    error
}

func (s *stubPublisher) PublishOrderEvent(_ context.Context, eventType string, o domain.Order) error {
	s.events = append(s.events, capturedEvent{eventType, o})
	return s.err
}

type stubGuard struct {
	first bool
}

func (s *stubGuard) FirstUse(context.Context, string) (bool, error) { return s.first, nil }

func newService(repo *stubOrderRepo, items *stubItemRepo, fetcher *stubFetcher, publisher EventPublisher, guard IdempotencyGuard) *Service {
	return New(repo, items, &stubValidator{}, fetcher, publisher, guard, nil)
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{4}-\d{6,}$`)

func TestCreate_StartsPendingWithZeroTotal(t *testing.T) {
	repo := newStubOrderRepo()
	publisher := &stubPublisher{}
	svc := newService(repo, newStubItemRepo(), &stubFetcher{}, publisher, nil)

	o, err := svc.Create(context.Background(), CreateInput{
		UserID:            1,
		ShippingAddressID: 2,
		PaymentMethod:     "credit_card",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.Status != domain.OrderPending || o.PaymentStatus != domain.PaymentPending {
		t.Fatalf("expected fresh order pending on both axes, got %s/%s", o.Status, o.PaymentStatus)
	}
	if !o.TotalAmount.IsZero() {
		t.Fatalf("expected zero total, got %s", o.TotalAmount)
	}
	if o.PaymentMethod != domain.PaymentCreditCard {
		t.Fatalf("expected normalized payment method, got %s", o.PaymentMethod)
	}
	if !orderNumberPattern.MatchString(o.OrderNumber) {
		t.Fatalf("unexpected order number %q", o.OrderNumber)
	}
	if len(publisher.events) != 1 || publisher.events[0].eventType != "order.created" {
		t.Fatalf("expected one order.created event, got %+v", publisher.events)
	}
}

func TestCreate_RejectsUnknownPaymentMethod(t *testing.T) {
	svc := newService(newStubOrderRepo(), newStubItemRepo(), &stubFetcher{}, nil, nil)

	var validation domain.ValidationError
	_, err := svc.Create(context.Background(), CreateInput{UserID: 1, ShippingAddressID: 2, PaymentMethod: "IOU"})
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_ReplayedIdempotencyKeyRejected(t *testing.T) {
	svc := newService(newStubOrderRepo(), newStubItemRepo(), &stubFetcher{}, nil, &stubGuard{first: false})

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:            1,
		ShippingAddressID: 2,
		PaymentMethod:     "PAYPAL",
		IdempotencyKey:    "abc-123",
	})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestCancel_GuardedOnlyAfterShipment(t *testing.T) {
	cases := []struct {
		status  domain.OrderStatus
		allowed bool
	}{
		{domain.OrderPending, true},
		{domain.OrderConfirmed, true},
		{domain.OrderProcessing, true},
		{domain.OrderCancelled, true},
		{domain.OrderShipped, false},
		{domain.OrderDelivered, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			repo := newStubOrderRepo()
			repo.orders[1] = domain.Order{ID: 1, UserID: 1, Status: tc.status}
			publisher := &stubPublisher{}
			svc := newService(repo, newStubItemRepo(), &stubFetcher{}, publisher, nil)

			o, err := svc.Cancel(context.Background(), 1)
			if tc.allowed {
				if err != nil {
					t.Fatalf("Cancel from %s: %v", tc.status, err)
				}
				if o.Status != domain.OrderCancelled {
					t.Fatalf("expected CANCELLED, got %s", o.Status)
				}
				if len(publisher.events) != 1 || publisher.events[0].eventType != "order.cancelled" {
					t.Fatalf("expected order.cancelled event")
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition from %s, got %v", tc.status, err)
			}
			if repo.orders[1].Status != tc.status {
				t.Fatalf("status must be unchanged after rejected cancel")
			}
		})
	}
}

func TestUpdateStatus_AnyAssignmentAccepted(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, Status: domain.OrderDelivered}
	svc := newService(repo, newStubItemRepo(), &stubFetcher{}, nil, nil)

	// backwards move is fine, only cancellation is guarded
	o, err := svc.UpdateStatus(context.Background(), 1, "pending")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if o.Status != domain.OrderPending {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), 1, "LOST"); err == nil {
		t.Fatalf("expected rejection of unknown status")
	}
}

func TestPaymentStatus_IndependentOfOrderStatus(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, Status: domain.OrderCancelled, PaymentStatus: domain.PaymentPending}
	svc := newService(repo, newStubItemRepo(), &stubFetcher{}, nil, nil)

	o, err := svc.UpdatePaymentStatus(context.Background(), 1, "PAID")
	if err != nil {
		t.Fatalf("UpdatePaymentStatus on cancelled order: %v", err)
	}
	if o.PaymentStatus != domain.PaymentPaid || o.Status != domain.OrderCancelled {
		t.Fatalf("payment status must move independently, got %s/%s", o.Status, o.PaymentStatus)
	}
}

func TestAddItem_SnapshotsUnitPriceAndRecomputesTotal(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, UserID: 1, Status: domain.OrderPending}
	items := newStubItemRepo()
	fetcher := &stubFetcher{products: map[int64]*remote.Product{
		10: {ID: 10, Price: decimal.RequireFromString("10.00")},
		11: {ID: 11, Price: decimal.RequireFromString("5.00")},
	}}
	svc := newService(repo, items, fetcher, nil, nil)

	first, err := svc.AddItem(context.Background(), 1, ItemInput{ProductID: 10, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if !first.UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected snapshotted unit price, got %s", first.UnitPrice)
	}
	if !first.TotalPrice.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected line total 20.00, got %s", first.TotalPrice)
	}

	if _, err := svc.AddItem(context.Background(), 1, ItemInput{ProductID: 11, Quantity: 3}); err != nil {
		t.Fatalf("AddItem second product: %v", err)
	}

	if got := repo.orders[1].TotalAmount; !got.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("expected order total 35.00, got %s", got)
	}
}

func TestAddItem_MergeKeepsOriginalUnitPrice(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, Status: domain.OrderPending}
	items := newStubItemRepo()
	fetcher := &stubFetcher{products: map[int64]*remote.Product{
		10: {ID: 10, Price: decimal.RequireFromString("10.00")},
	}}
	svc := newService(repo, items, fetcher, nil, nil)

	if _, err := svc.AddItem(context.Background(), 1, ItemInput{ProductID: 10, Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// price moves upstream; the merged line must keep the old snapshot
	fetcher.products[10] = &remote.Product{ID: 10, Price: decimal.RequireFromString("99.00")}

	merged, err := svc.AddItem(context.Background(), 1, ItemInput{ProductID: 10, Quantity: 3})
	if err != nil {
		t.Fatalf("AddItem merge: %v", err)
	}
	if merged.Quantity != 5 {
		t.Fatalf("expected accumulated quantity 5, got %d", merged.Quantity)
	}
	if !merged.UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("unit price must not be refreshed on merge, got %s", merged.UnitPrice)
	}
	if !merged.TotalPrice.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("expected line total 50.00, got %s", merged.TotalPrice)
	}
	if got := repo.orders[1].TotalAmount; !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("expected order total 50.00, got %s", got)
	}
}

func TestAddItem_UnknownProductRejected(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, Status: domain.OrderPending}
	svc := newService(repo, newStubItemRepo(), &stubFetcher{}, nil, nil)

	_, err := svc.AddItem(context.Background(), 1, ItemInput{ProductID: 99, Quantity: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdateItemQuantity_Accumulates(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, Status: domain.OrderPending}
	items := newStubItemRepo()
	items.items[7] = domain.OrderItem{
		ID: 7, OrderID: 1, ProductID: 10, Quantity: 2,
		UnitPrice:  decimal.RequireFromString("10.00"),
		TotalPrice: decimal.RequireFromString("20.00"),
	}
	items.nextID = 8
	svc := newService(repo, items, &stubFetcher{}, nil, nil)

	updated, err := svc.UpdateItemQuantity(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	if updated.Quantity != 5 {
		t.Fatalf("expected quantity accumulated to 5, got %d", updated.Quantity)
	}
	if !updated.TotalPrice.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("expected line total 50.00, got %s", updated.TotalPrice)
	}
	if got := repo.orders[1].TotalAmount; !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("expected order total 50.00, got %s", got)
	}
}

func TestRemoveItem_TotalBackToZero(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, Status: domain.OrderPending, TotalAmount: decimal.RequireFromString("20.00")}
	items := newStubItemRepo()
	items.items[7] = domain.OrderItem{
		ID: 7, OrderID: 1, ProductID: 10, Quantity: 2,
		UnitPrice:  decimal.RequireFromString("10.00"),
		TotalPrice: decimal.RequireFromString("20.00"),
	}
	svc := newService(repo, items, &stubFetcher{}, nil, nil)

	if err := svc.RemoveItem(context.Background(), 7); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if !repo.orders[1].TotalAmount.IsZero() {
		t.Fatalf("expected total back to zero, got %s", repo.orders[1].TotalAmount)
	}
}

func TestGetView_BestEffortSnapshots(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders[1] = domain.Order{ID: 1, UserID: 3, ShippingAddressID: 5, Status: domain.OrderPending}
	items := newStubItemRepo()
	items.items[7] = domain.OrderItem{ID: 7, OrderID: 1, ProductID: 10, Quantity: 1}
	// user service is down, product service is up
	fetcher := &stubFetcher{products: map[int64]*remote.Product{
		10: {ID: 10, Name: "Mug"},
	}}
	svc := newService(repo, items, fetcher, nil, nil)

	view, err := svc.GetView(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if view.User != nil || view.ShippingAddress != nil {
		t.Fatalf("expected missing user and address snapshots")
	}
	if len(view.Items) != 1 || view.Items[0].Product == nil || view.Items[0].Product.Name != "Mug" {
		t.Fatalf("expected product snapshot on the item, got %+v", view.Items)
	}
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := generateOrderNumber()
		if !orderNumberPattern.MatchString(n) {
			t.Fatalf("unexpected order number %q", n)
		}
		seen[n] = true
	}
	if len(seen) < 2 {
		t.Fatalf("order numbers should vary across generations")
	}
}
