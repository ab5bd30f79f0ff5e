package domain

import "time"

// Review references a user and a product by id only. At most one active
// review may exist per (product, user); soft deletion frees the pair.
type Review struct {
	ID               int64     `json:"id"`
	ProductID        int64     `json:"productId"`
	UserID           int64     `json:"userId"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	VerifiedPurchase bool      `json:"verifiedPurchase"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
