package product

import (
	"context"
	"errors"
	"io"
	"log"

	"shopstack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, COALESCE(description, ''), price, stock_quantity, category_id, active, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE active ORDER BY id`)
}

func (r *postgresRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND active`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Product", "id", id)
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListActiveByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 AND active ORDER BY id`, categoryID)
}

func (r *postgresRepo) SearchActiveByName(ctx context.Context, name string) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE name ILIKE '%' || $1 || '%' AND active ORDER BY id`, name)
}

func (r *postgresRepo) ListActiveByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE price BETWEEN $1 AND $2 AND active ORDER BY id`, min, max)
}

func (r *postgresRepo) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE stock_quantity > 0 AND active ORDER BY id`)
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price, stock_quantity, category_id)
VALUES ($1, NULLIF($2, ''), $3, $4, $5)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.Price, p.StockQuantity, p.CategoryID))
	if err != nil {
		r.logger.Printf("product repo: create name=%s error=%v", p.Name, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $1, description = NULLIF($2, ''), price = $3, stock_quantity = $4, category_id = $5, updated_at = now()
WHERE id = $6 AND active
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.Price, p.StockQuantity, p.CategoryID, p.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Product", "id", p.ID)
		}
		r.logger.Printf("product repo: update id=%d error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) SetInactive(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET active = FALSE, updated_at = now() WHERE id = $1 AND active`, id)
	if err != nil {
		r.logger.Printf("product repo: set inactive id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("Product", "id", id)
	}
	return nil
}

func (r *postgresRepo) UpdateStock(ctx context.Context, id int64, stockQuantity int) (*domain.Product, error) {
	const q = `
UPDATE products
SET stock_quantity = $1, updated_at = now()
WHERE id = $2 AND active
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, stockQuantity, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Product", "id", id)
		}
		r.logger.Printf("product repo: update stock id=%d error=%v", id, err)
		return nil, err
	}
	return updated, nil
}

// UpsertByName inserts the product or, when an active product with the same
// name already exists, overwrites its catalog fields. Used by the bulk
// importer; names act as the natural key there.
func (r *postgresRepo) UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `SELECT id FROM products WHERE lower(name) = lower($1) AND active`
	var id int64
	err := r.pool.QueryRow(ctx, q, p.Name).Scan(&id)
	switch {
	case err == nil:
		p.ID = id
		return r.Update(ctx, p)
	case errors.Is(err, pgx.ErrNoRows):
		return r.Create(ctx, p)
	default:
		r.logger.Printf("product repo: upsert name=%s error=%v", p.Name, err)
		return nil, err
	}
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.CategoryID, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
