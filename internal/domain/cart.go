package domain

import "time"

// CartLine holds one (user, product) pair; at most one line may exist per
// pair, with quantity accumulating on repeated adds. Prices are never stored
// on the line: the subtotal is recomputed from a fresh product snapshot on
// every read.
type CartLine struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
