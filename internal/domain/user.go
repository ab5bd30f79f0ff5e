package domain

import "time"

// User is owned by the user service. Other services hold its id as a weak
// reference only.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active"`
	Addresses    []Address `json:"addresses,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AddressType distinguishes how an address may be used.
type AddressType string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"
	AddressBoth     AddressType = "BOTH"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	switch t {
	case AddressShipping, AddressBilling, AddressBoth:
		return true
	}
	return false
}

type Address struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"userId"`
	Type          AddressType `json:"type"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	StreetAddress string      `json:"streetAddress"`
	City          string      `json:"city"`
	StateProvince string      `json:"stateProvince,omitempty"`
	PostalCode    string      `json:"postalCode"`
	Country       string      `json:"country"`
	Phone         string      `json:"phone,omitempty"`
	IsDefault     bool        `json:"isDefault"`
	Active        bool        `json:"active"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
