package orderitem

import (
	"context"
	"errors"
	"io"
	"log"

	"shopstack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = `id, order_id, product_id, quantity, unit_price, total_price, created_at`

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

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		r.logger.Printf("order item repo: list order_id=%d error=%v", orderID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.OrderItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM order_items WHERE id = $1`
	item, err := scanItem(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("OrderItem", "id", id)
		}
		r.logger.Printf("order item repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) FindByOrderAndProduct(ctx context.Context, orderID, productID int64) (*domain.OrderItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 AND product_id = $2`
	item, err := scanItem(r.pool.QueryRow(ctx, q, orderID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order item repo: find order_id=%d product_id=%d error=%v", orderID, productID, err)
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) Create(ctx context.Context, item domain.OrderItem) (*domain.OrderItem, error) {
	const q = `
INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + itemColumns
	created, err := scanItem(r.pool.QueryRow(ctx, q, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice))
	if err != nil {
		r.logger.Printf("order item repo: create order_id=%d product_id=%d error=%v", item.OrderID, item.ProductID, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, item domain.OrderItem) (*domain.OrderItem, error) {
	const q = `
UPDATE order_items
SET quantity = $1, unit_price = $2, total_price = $3
WHERE id = $4
RETURNING ` + itemColumns
	updated, err := scanItem(r.pool.QueryRow(ctx, q, item.Quantity, item.UnitPrice, item.TotalPrice, item.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("OrderItem", "id", item.ID)
		}
		r.logger.Printf("order item repo: update id=%d error=%v", item.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("order item repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("OrderItem", "id", id)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
