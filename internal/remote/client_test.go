package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopstack/internal/domain"
	"github.com/shopspring/decimal"
)

func TestClient_GetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"name":"Mug","price":"12.99","stockQuantity":5,"active":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, nil)
	p, err := client.GetProduct(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.ID != 42 || p.Name != "Mug" {
		t.Fatalf("unexpected product %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.99")) {
		t.Fatalf("unexpected price %s", p.Price)
	}
}

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/7" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":7,"username":"ada","email":"ada@example.com","active":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, nil)
	u, err := client.GetUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Username != "ada" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestClient_FailuresCollapseIntoFetchFailed(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			client := NewClient(srv.URL, srv.URL, nil)
			if _, err := client.GetProduct(context.Background(), 1); !errors.Is(err, ErrFetchFailed) {
				t.Fatalf("expected ErrFetchFailed, got %v", err)
			}
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, srv.URL, nil)
	if _, err := client.GetUser(context.Background(), 1); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

type stubFetcher struct {
	user    *User
	product *Product
	address *Address
	err     error
}

func (s *stubFetcher) GetUser(context.Context, int64) (*User, error) {
	return s.user, s.err
}

func (s *stubFetcher) GetProduct(context.Context, int64) (*Product, error) {
	return s.product, s.err
}

func (s *stubFetcher) GetAddress(context.Context, int64, int64) (*Address, error) {
	return s.address, s.err
}

func TestValidator_FailureBecomesNotFound(t *testing.T) {
	v := NewValidator(&stubFetcher{err: ErrFetchFailed}, nil)

	err := v.ProductExists(context.Background(), 9)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if nf.Kind != "Product" || nf.Value != int64(9) {
		t.Fatalf("unexpected error detail %+v", nf)
	}

	if err := v.UserExists(context.Background(), 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if err := v.AddressExists(context.Background(), 3, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestValidator_SuccessDiscardsPayload(t *testing.T) {
	v := NewValidator(&stubFetcher{user: &User{ID: 3}, product: &Product{ID: 9}, address: &Address{ID: 5}}, nil)

	if err := v.UserExists(context.Background(), 3); err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if err := v.ProductExists(context.Background(), 9); err != nil {
		t.Fatalf("ProductExists: %v", err)
	}
	if err := v.AddressExists(context.Background(), 3, 5); err != nil {
		t.Fatalf("AddressExists: %v", err)
	}
}
