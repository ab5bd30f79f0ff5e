package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrFetchFailed is the single failure signal for peer fetches. Transport
// errors, timeouts, non-2xx statuses and decode failures all collapse into
// it; callers cannot special-case any one cause.
var ErrFetchFailed = errors.New("remote fetch failed")

// User is a request-scoped snapshot of a user owned by the user service.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Active    bool   `json:"active"`
}

// Product is a request-scoped snapshot of a product owned by the product
// service. Price reflects the owning service at fetch time and must never be
// persisted by the caller.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Active        bool            `json:"active"`
}

// Address is a request-scoped snapshot of a user address.
type Address struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	Type          string `json:"type"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	StateProvince string `json:"stateProvince,omitempty"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	IsDefault     bool   `json:"isDefault"`
}

// Client fetches entity snapshots from peer services. One synchronous
// request per call; no retry, no cache.
type Client struct {
	userBaseURL    string
	productBaseURL string
	httpClient     *http.Client
	logger         *log.Logger
}

// NewClient builds a Client with the given peer base URLs.
func NewClient(userBaseURL, productBaseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		userBaseURL:    userBaseURL,
		productBaseURL: productBaseURL,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
		logger:         logger,
	}
}

// GetUser fetches a user snapshot from the user service.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	var u User
	if err := c.fetch(ctx, fmt.Sprintf("%s/api/users/%d", c.userBaseURL, userID), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProduct fetches a product snapshot from the product service.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var p Product
	if err := c.fetch(ctx, fmt.Sprintf("%s/api/products/%d", c.productBaseURL, productID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAddress fetches an address snapshot scoped to its owning user.
func (c *Client) GetAddress(ctx context.Context, userID, addressID int64) (*Address, error) {
	var a Address
	url := fmt.Sprintf("%s/api/users/%d/addresses/%d", c.userBaseURL, userID, addressID)
	if err := c.fetch(ctx, url, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("remote: fetch url=%s error=%v", url, err)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("remote: fetch url=%s status=%d", url, resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Printf("remote: decode url=%s error=%v", url, err)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return nil
}
