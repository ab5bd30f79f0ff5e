package review

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

const reviewColumns = `id, product_id, user_id, rating, COALESCE(title, ''), COALESCE(comment, ''), verified_purchase, active, created_at, updated_at`

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

func (r *postgresRepo) ListActiveByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 AND active ORDER BY created_at DESC`, productID)
}

func (r *postgresRepo) ListActiveByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 AND active ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) ListActiveByProductMinRating(ctx context.Context, productID int64, minRating int) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 AND rating >= $2 AND active ORDER BY created_at DESC`, productID, minRating)
}

func (r *postgresRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 AND active`
	rv, err := scanReview(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Review", "id", id)
		}
		r.logger.Printf("review repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) FindActiveByProductAndUser(ctx context.Context, productID, userID int64) (*domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1 AND user_id = $2 AND active`
	rv, err := scanReview(r.pool.QueryRow(ctx, q, productID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("review repo: find product_id=%d user_id=%d error=%v", productID, userID, err)
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (product_id, user_id, rating, title, comment, verified_purchase, active)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, true)
RETURNING ` + reviewColumns
	created, err := scanReview(r.pool.QueryRow(ctx, q, rv.ProductID, rv.UserID, rv.Rating, rv.Title, rv.Comment, rv.VerifiedPurchase))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.DuplicateWithMessage("Review", "user has already reviewed this product")
		}
		r.logger.Printf("review repo: create product_id=%d user_id=%d error=%v", rv.ProductID, rv.UserID, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
UPDATE reviews
SET rating = $1, title = NULLIF($2, ''), comment = NULLIF($3, ''), updated_at = now()
WHERE id = $4 AND active
RETURNING ` + reviewColumns
	updated, err := scanReview(r.pool.QueryRow(ctx, q, rv.Rating, rv.Title, rv.Comment, rv.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Review", "id", rv.ID)
		}
		r.logger.Printf("review repo: update id=%d error=%v", rv.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) SetInactive(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE reviews SET active = false, updated_at = now() WHERE id = $1 AND active`, id)
	if err != nil {
		r.logger.Printf("review repo: deactivate id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("Review", "id", id)
	}
	return nil
}

func (r *postgresRepo) AverageRating(ctx context.Context, productID int64) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1 AND active`, productID).Scan(&avg)
	if err != nil {
		r.logger.Printf("review repo: average product_id=%d error=%v", productID, err)
		return 0, err
	}
	return avg, nil
}

func (r *postgresRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND active`, productID).Scan(&count)
	if err != nil {
		r.logger.Printf("review repo: count product_id=%d error=%v", productID, err)
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("review repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rv)
	}
	return result, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Title, &rv.Comment, &rv.VerifiedPurchase, &rv.Active, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}
