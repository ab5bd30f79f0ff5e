package remote

import (
	"context"
	"io"
	"log"

	"shopstack/internal/domain"
)

// Fetcher is the subset of Client used for existence validation.
type Fetcher interface {
	GetUser(ctx context.Context, userID int64) (*User, error)
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	GetAddress(ctx context.Context, userID, addressID int64) (*Address, error)
}

// Validator turns failed peer fetches into domain not-found errors. It is
// used as a write-time precondition before recording a foreign key; the
// fetched payload is always discarded so no snapshot is ever held across a
// subsequent write. The narrow race with a concurrent remote delete is
// accepted.
type Validator struct {
	fetcher Fetcher
	logger  *log.Logger
}

// NewValidator builds a Validator on top of a snapshot fetcher.
func NewValidator(fetcher Fetcher, logger *log.Logger) *Validator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Validator{fetcher: fetcher, logger: logger}
}

// UserExists returns a NotFoundError unless the user service confirms the id.
func (v *Validator) UserExists(ctx context.Context, userID int64) error {
	if _, err := v.fetcher.GetUser(ctx, userID); err != nil {
		v.logger.Printf("validator: user id=%d error=%v", userID, err)
		return domain.NotFound("User", "id", userID)
	}
	return nil
}

// ProductExists returns a NotFoundError unless the product service confirms the id.
func (v *Validator) ProductExists(ctx context.Context, productID int64) error {
	if _, err := v.fetcher.GetProduct(ctx, productID); err != nil {
		v.logger.Printf("validator: product id=%d error=%v", productID, err)
		return domain.NotFound("Product", "id", productID)
	}
	return nil
}

// AddressExists returns a NotFoundError unless the user service confirms the
// address for the given user.
func (v *Validator) AddressExists(ctx context.Context, userID, addressID int64) error {
	if _, err := v.fetcher.GetAddress(ctx, userID, addressID); err != nil {
		v.logger.Printf("validator: address user_id=%d id=%d error=%v", userID, addressID, err)
		return domain.NotFound("Address", "id", addressID)
	}
	return nil
}
