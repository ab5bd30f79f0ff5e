package address

import (
	"context"
	"errors"
	"io"
	"log"

	"shopstack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const addressColumns = `id, user_id, type, first_name, last_name, street_address, city, COALESCE(state_province, ''), postal_code, country, COALESCE(phone, ''), is_default, active, created_at, updated_at`

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

func (r *postgresRepo) ListActiveByUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND active ORDER BY id`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("address repo: list user_id=%d error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetActiveByIDAndUser(ctx context.Context, id, userID int64) (*domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2 AND active`
	a, err := scanAddress(r.pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Address", "id", id)
		}
		r.logger.Printf("address repo: get id=%d user_id=%d error=%v", id, userID, err)
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	const q = `
INSERT INTO addresses (user_id, type, first_name, last_name, street_address, city, state_province, postal_code, country, phone, is_default)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''), $11)
RETURNING ` + addressColumns
	row := r.pool.QueryRow(ctx, q, a.UserID, a.Type, a.FirstName, a.LastName, a.StreetAddress, a.City, a.StateProvince, a.PostalCode, a.Country, a.Phone, a.IsDefault)
	created, err := scanAddress(row)
	if err != nil {
		r.logger.Printf("address repo: create user_id=%d error=%v", a.UserID, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, a domain.Address) (*domain.Address, error) {
	const q = `
UPDATE addresses
SET type = $1, first_name = $2, last_name = $3, street_address = $4, city = $5, state_province = NULLIF($6, ''), postal_code = $7, country = $8, phone = NULLIF($9, ''), is_default = $10, updated_at = now()
WHERE id = $11 AND user_id = $12 AND active
RETURNING ` + addressColumns
	row := r.pool.QueryRow(ctx, q, a.Type, a.FirstName, a.LastName, a.StreetAddress, a.City, a.StateProvince, a.PostalCode, a.Country, a.Phone, a.IsDefault, a.ID, a.UserID)
	updated, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Address", "id", a.ID)
		}
		r.logger.Printf("address repo: update id=%d error=%v", a.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) SetInactive(ctx context.Context, id, userID int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE addresses SET active = FALSE, updated_at = now() WHERE id = $1 AND user_id = $2 AND active`, id, userID)
	if err != nil {
		r.logger.Printf("address repo: set inactive id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("Address", "id", id)
	}
	return nil
}

func (r *postgresRepo) ClearDefault(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE addresses SET is_default = FALSE, updated_at = now() WHERE user_id = $1 AND is_default AND active`, userID)
	if err != nil {
		r.logger.Printf("address repo: clear default user_id=%d error=%v", userID, err)
	}
	return err
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.FirstName, &a.LastName, &a.StreetAddress, &a.City, &a.StateProvince, &a.PostalCode, &a.Country, &a.Phone, &a.IsDefault, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
