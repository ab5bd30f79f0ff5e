package user

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

const userColumns = `id, username, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(phone, ''), active, created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, email, password_hash, first_name, last_name, phone)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
RETURNING ` + userColumns
	row := r.pool.QueryRow(ctx, q, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone)
	created, err := scanUser(row)
	if err != nil {
		r.logger.Printf("user repo: create username=%s error=%v", u.Username, err)
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User", "id", id)
		}
		r.logger.Printf("user repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND active`
	u, err := scanUser(r.pool.QueryRow(ctx, q, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User", "username", username)
		}
		r.logger.Printf("user repo: get username=%s error=%v", username, err)
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *postgresRepo) ListWithAddresses(ctx context.Context) ([]domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return users, nil
	}

	const q = `
SELECT id, user_id, type, first_name, last_name, street_address, city, COALESCE(state_province, ''), postal_code, country, COALESCE(phone, ''), is_default, active, created_at, updated_at
FROM addresses
WHERE active
ORDER BY user_id, id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("user repo: list addresses error=%v", err)
		return nil, err
	}
	defer rows.Close()

	byUser := make(map[int64][]domain.Address)
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.FirstName, &a.LastName, &a.StreetAddress, &a.City, &a.StateProvince, &a.PostalCode, &a.Country, &a.Phone, &a.IsDefault, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Addresses = byUser[users[i].ID]
	}
	return users, nil
}

func (r *postgresRepo) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
UPDATE users
SET username = $1, email = $2, password_hash = $3, first_name = NULLIF($4, ''), last_name = NULLIF($5, ''), phone = NULLIF($6, ''), updated_at = now()
WHERE id = $7
RETURNING ` + userColumns
	row := r.pool.QueryRow(ctx, q, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.ID)
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User", "id", u.ID)
		}
		r.logger.Printf("user repo: update id=%d error=%v", u.ID, err)
		return nil, mapUniqueViolation(err)
	}
	return updated, nil
}

func (r *postgresRepo) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		r.logger.Printf("user repo: set active id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("User", "id", id)
	}
	return nil
}

func (r *postgresRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	return result, rows.Err()
}

// mapUniqueViolation is the storage backstop for races the service-level
// exists checks cannot close.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return domain.Duplicate("User", "username", "")
		case "users_email_key":
			return domain.Duplicate("User", "email", "")
		}
		return domain.Duplicate("User", "field", "")
	}
	return err
}
