package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"shopstack/internal/domain"
	"shopstack/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func setup(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := testPool(ctx, t)
	if err := migrate.Apply(ctx, pool, "cart"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_lines RESTART IDENTITY`); err != nil {
		t.Fatalf("reset tables: %v", err)
	}
	return pool
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := setup(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, domain.CartLine{UserID: 1, ProductID: 10, Quantity: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Quantity != 2 {
		t.Fatalf("unexpected line %+v", created)
	}

	fetched, err := repo.GetByUserAndProduct(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetByUserAndProduct: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("fetched mismatch %+v", fetched)
	}
}

func TestPostgres_DuplicatePairRejected(t *testing.T) {
	ctx := context.Background()
	pool := setup(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	if _, err := repo.Create(ctx, domain.CartLine{UserID: 1, ProductID: 10, Quantity: 2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Create(ctx, domain.CartLine{UserID: 1, ProductID: 10, Quantity: 1})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate for same (user, product), got %v", err)
	}
}

func TestPostgres_DeleteScopedToUser(t *testing.T) {
	ctx := context.Background()
	pool := setup(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, domain.CartLine{UserID: 1, ProductID: 10, Quantity: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, created.ID, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found deleting another user's line, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
