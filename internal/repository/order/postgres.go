package order

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

const orderColumns = `id, user_id, order_number, status, total_amount, payment_method, payment_status, shipping_address_id, COALESCE(notes, ''), created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (user_id, order_number, status, total_amount, payment_method, payment_status, shipping_address_id, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
RETURNING ` + orderColumns
	row := r.pool.QueryRow(ctx, q, o.UserID, o.OrderNumber, o.Status, o.TotalAmount, o.PaymentMethod, o.PaymentStatus, o.ShippingAddressID, o.Notes)
	created, err := scanOrder(row)
	if err != nil {
		r.logger.Printf("order repo: create number=%s error=%v", o.OrderNumber, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.get(ctx, q, "id", id, id)
}

func (r *postgresRepo) GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return r.get(ctx, q, "id", id, id, userID)
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.get(ctx, q, "orderNumber", orderNumber, orderNumber)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const q = `
UPDATE orders SET status = $1, updated_at = now() WHERE id = $2
RETURNING ` + orderColumns
	return r.get(ctx, q, "id", id, status, id)
}

func (r *postgresRepo) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	const q = `
UPDATE orders SET payment_status = $1, updated_at = now() WHERE id = $2
RETURNING ` + orderColumns
	return r.get(ctx, q, "id", id, status, id)
}

func (r *postgresRepo) UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) (*domain.Order, error) {
	const q = `
UPDATE orders SET total_amount = $1, updated_at = now() WHERE id = $2
RETURNING ` + orderColumns
	return r.get(ctx, q, "id", id, total, id)
}

func (r *postgresRepo) get(ctx context.Context, q, field string, value interface{}, args ...interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Order", field, value)
		}
		r.logger.Printf("order repo: %s=%v error=%v", field, value, err)
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus, &o.ShippingAddressID, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
