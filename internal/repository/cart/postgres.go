package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"shopstack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lineColumns = `id, user_id, product_id, quantity, created_at, updated_at`

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

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lineColumns+` FROM cart_lines WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		r.logger.Printf("cart repo: list user_id=%d error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.CartLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *line)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.CartLine, error) {
	const q = `SELECT ` + lineColumns + ` FROM cart_lines WHERE id = $1 AND user_id = $2`
	line, err := scanLine(r.pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Cart item", "id", id)
		}
		r.logger.Printf("cart repo: get id=%d user_id=%d error=%v", id, userID, err)
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) GetByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartLine, error) {
	const q = `SELECT ` + lineColumns + ` FROM cart_lines WHERE user_id = $1 AND product_id = $2`
	line, err := scanLine(r.pool.QueryRow(ctx, q, userID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: get user_id=%d product_id=%d error=%v", userID, productID, err)
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) Create(ctx context.Context, line domain.CartLine) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_id, quantity)
VALUES ($1, $2, $3)
RETURNING ` + lineColumns
	created, err := scanLine(r.pool.QueryRow(ctx, q, line.UserID, line.ProductID, line.Quantity))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// backstop for two concurrent adds both observing "absent"
			return nil, domain.Duplicate("Cart item", "productId", line.ProductID)
		}
		r.logger.Printf("cart repo: create user_id=%d product_id=%d error=%v", line.UserID, line.ProductID, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) (*domain.CartLine, error) {
	const q = `
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2
RETURNING ` + lineColumns
	updated, err := scanLine(r.pool.QueryRow(ctx, q, quantity, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Cart item", "id", id)
		}
		r.logger.Printf("cart repo: update quantity id=%d error=%v", id, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Replace(ctx context.Context, id, userID, productID int64, quantity int) (*domain.CartLine, error) {
	const q = `
UPDATE cart_lines
SET product_id = $1, quantity = $2, updated_at = now()
WHERE id = $3 AND user_id = $4
RETURNING ` + lineColumns
	updated, err := scanLine(r.pool.QueryRow(ctx, q, productID, quantity, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Cart item", "id", id)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.Duplicate("Cart item", "productId", productID)
		}
		r.logger.Printf("cart repo: replace id=%d error=%v", id, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id, userID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Printf("cart repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("Cart item", "id", id)
	}
	return nil
}

func (r *postgresRepo) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Printf("cart repo: clear user_id=%d error=%v", userID, err)
	}
	return err
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_lines WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	if err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
		return nil, err
	}
	return &line, nil
}
