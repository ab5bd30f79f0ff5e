package order

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"strings"
	"time"

	"shopstack/internal/domain"
	"shopstack/internal/events"
	"shopstack/internal/remote"
	orderrepo "shopstack/internal/repository/order"
	itemrepo "shopstack/internal/repository/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type validator interface {
	UserExists(ctx context.Context, userID int64) error
	AddressExists(ctx context.Context, userID, addressID int64) error
}

type snapshotFetcher interface {
	GetUser(ctx context.Context, userID int64) (*remote.User, error)
	GetProduct(ctx context.Context, productID int64) (*remote.Product, error)
	GetAddress(ctx context.Context, userID, addressID int64) (*remote.Address, error)
}

// EventPublisher emits order lifecycle events after a write commits.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, eventType string, o domain.Order) error
}

// IdempotencyGuard claims submission keys so retried creates are rejected.
type IdempotencyGuard interface {
	FirstUse(ctx context.Context, key string) (bool, error)
}

// Service owns the order lifecycle. The publisher and guard are optional;
// when nil, events are not emitted and idempotency keys are not enforced.
type Service struct {
	repo      orderrepo.Repository
	items     itemrepo.Repository
	validator validator
	fetcher   snapshotFetcher
	publisher EventPublisher
	guard     IdempotencyGuard
	logger    *log.Logger
}

func New(repo orderrepo.Repository, items itemrepo.Repository, v validator, fetcher snapshotFetcher, publisher EventPublisher, guard IdempotencyGuard, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, items: items, validator: v, fetcher: fetcher, publisher: publisher, guard: guard, logger: logger}
}

type CreateInput struct {
	UserID            int64  `json:"userId"`
	ShippingAddressID int64  `json:"shippingAddressId"`
	PaymentMethod     string `json:"paymentMethod"`
	Notes             string `json:"notes"`
	IdempotencyKey    string `json:"idempotencyKey"`
}

type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Create records a new PENDING order with a zero total. Items are added
// afterwards through AddItem.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	method := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentMethod)))
	if !method.Valid() {
		return nil, domain.ValidationError{"paymentMethod": "unknown payment method"}
	}
	if err := s.validator.UserExists(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := s.validator.AddressExists(ctx, in.UserID, in.ShippingAddressID); err != nil {
		return nil, err
	}

	if s.guard != nil && in.IdempotencyKey != "" {
		first, err := s.guard.FirstUse(ctx, in.IdempotencyKey)
		if err != nil {
			s.logger.Printf("order service: idempotency key=%s error=%v", in.IdempotencyKey, err)
		} else if !first {
			return nil, domain.DuplicateWithMessage("Order", "order already submitted with this idempotency key")
		}
	}

	created, err := s.repo.Create(ctx, domain.Order{
		UserID:            in.UserID,
		OrderNumber:       generateOrderNumber(),
		Status:            domain.OrderPending,
		TotalAmount:       decimal.Zero,
		PaymentMethod:     method,
		PaymentStatus:     domain.PaymentPending,
		ShippingAddressID: in.ShippingAddressID,
		Notes:             in.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCreated, *created)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetForUser(ctx context.Context, id, userID int64) (*domain.Order, error) {
	return s.repo.GetByIDAndUser(ctx, id, userID)
}

func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.repo.GetByNumber(ctx, orderNumber)
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, domain.ValidationError{"status": "unknown order status"}
	}
	return s.repo.ListByStatus(ctx, parsed)
}

// UpdateStatus sets the fulfilment status directly. Only cancellation is
// guarded; any other assignment, including backwards moves, is accepted.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, domain.ValidationError{"status": "unknown order status"}
	}
	updated, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderUpdated, *updated)
	return updated, nil
}

// Cancel moves the order to CANCELLED unless it has already shipped or been
// delivered. Cancelling an already cancelled order succeeds.
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.Cancellable() {
		return nil, fmt.Errorf("%w: order in status %s cannot be cancelled", domain.ErrInvalidTransition, o.Status)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, domain.OrderCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCancelled, *updated)
	return updated, nil
}

// UpdatePaymentStatus tracks payment independently of the fulfilment status;
// no combination of the two is rejected.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	parsed, err := domain.ParsePaymentStatus(status)
	if err != nil {
		return nil, domain.ValidationError{"paymentStatus": "unknown payment status"}
	}
	updated, err := s.repo.UpdatePaymentStatus(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderUpdated, *updated)
	return updated, nil
}

// ItemView decorates an order item with a fresh product snapshot; the stored
// unit price stays authoritative for money.
type ItemView struct {
	domain.OrderItem
	Product *remote.Product `json:"product,omitempty"`
}

// View is the composite order: the order row plus snapshots of the user,
// shipping address and each item's product. Every snapshot is best-effort
// and nil when its owning service could not confirm the id.
type View struct {
	domain.Order
	User            *remote.User    `json:"user,omitempty"`
	ShippingAddress *remote.Address `json:"shippingAddress,omitempty"`
	Items           []ItemView      `json:"items"`
}

// GetView assembles the composite order. Failed snapshot fetches degrade
// the view instead of failing it; only a missing order is an error.
func (s *Service) GetView(ctx context.Context, id int64) (*View, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &View{Order: *o, Items: make([]ItemView, 0, len(items))}
	if u, err := s.fetcher.GetUser(ctx, o.UserID); err != nil {
		s.logger.Printf("order service: user snapshot id=%d error=%v", o.UserID, err)
	} else {
		view.User = u
	}
	if a, err := s.fetcher.GetAddress(ctx, o.UserID, o.ShippingAddressID); err != nil {
		s.logger.Printf("order service: address snapshot id=%d error=%v", o.ShippingAddressID, err)
	} else {
		view.ShippingAddress = a
	}
	for _, item := range items {
		iv := ItemView{OrderItem: item}
		if p, err := s.fetcher.GetProduct(ctx, item.ProductID); err != nil {
			s.logger.Printf("order service: product snapshot id=%d error=%v", item.ProductID, err)
		} else {
			iv.Product = p
		}
		view.Items = append(view.Items, iv)
	}
	return view, nil
}

func (s *Service) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.items.ListByOrder(ctx, orderID)
}

// AddItem snapshots the product's current price as the item's unit price. A
// second add of the same product merges into the existing item, accumulating
// quantity at the original unit price.
func (s *Service) AddItem(ctx context.Context, orderID int64, in ItemInput) (*domain.OrderItem, error) {
	if in.Quantity < 1 {
		return nil, domain.ValidationError{"quantity": "quantity must be at least 1"}
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	existing, err := s.items.FindByOrderAndProduct(ctx, orderID, in.ProductID)
	if err == nil {
		existing.Quantity += in.Quantity
		existing.TotalPrice = existing.UnitPrice.Mul(decimal.NewFromInt(int64(existing.Quantity)))
		updated, err := s.items.Update(ctx, *existing)
		if err != nil {
			return nil, err
		}
		if err := s.recalculateTotal(ctx, o.ID); err != nil {
			return nil, err
		}
		return updated, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	p, err := s.fetcher.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, domain.NotFound("Product", "id", in.ProductID)
	}
	created, err := s.items.Create(ctx, domain.OrderItem{
		OrderID:    orderID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  p.Price,
		TotalPrice: p.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
	})
	if err != nil {
		return nil, err
	}
	if err := s.recalculateTotal(ctx, o.ID); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateItemQuantity adds the given quantity to the item's current quantity;
// the unit price snapshot is never refreshed.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.OrderItem, error) {
	if quantity < 1 {
		return nil, domain.ValidationError{"quantity": "quantity must be at least 1"}
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity += quantity
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	updated, err := s.items.Update(ctx, *item)
	if err != nil {
		return nil, err
	}
	if err := s.recalculateTotal(ctx, item.OrderID); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) RemoveItem(ctx context.Context, itemID int64) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return err
	}
	return s.recalculateTotal(ctx, item.OrderID)
}

// recalculateTotal rewrites the order total as the sum of its item totals.
// An empty order goes back to zero.
func (s *Service) recalculateTotal(ctx context.Context, orderID int64) error {
	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	_, err = s.repo.UpdateTotal(ctx, orderID, total)
	return err
}

func (s *Service) publish(ctx context.Context, eventType string, o domain.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, eventType, o); err != nil {
		s.logger.Printf("order service: publish type=%s id=%d error=%v", eventType, o.ID, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// generateOrderNumber derives a display number from a random UUID hashed
// down to 24 bits, rendered as ORD-{year}-{6 digits}. Collisions within a
// year are possible and surface as a unique violation on insert.
func generateOrderNumber() string {
	h := fnv.New32a()
	h.Write([]byte(uuid.NewString()))
	return fmt.Sprintf("ORD-%d-%06d", time.Now().Year(), h.Sum32()&0xFFFFFF)
}
