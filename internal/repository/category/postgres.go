package category

import (
	"context"
	"errors"
	"io"
	"log"

	"shopstack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, name, COALESCE(description, ''), active, created_at, updated_at`

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

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE active ORDER BY name`)
	if err != nil {
		r.logger.Printf("category repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND active`
	c, err := scanCategory(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Category", "id", id)
		}
		r.logger.Printf("category repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ExistsActiveByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1) AND active)`, name).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, description)
VALUES ($1, NULLIF($2, ''))
RETURNING ` + categoryColumns
	created, err := scanCategory(r.pool.QueryRow(ctx, q, c.Name, c.Description))
	if err != nil {
		r.logger.Printf("category repo: create name=%s error=%v", c.Name, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories
SET name = $1, description = NULLIF($2, ''), updated_at = now()
WHERE id = $3 AND active
RETURNING ` + categoryColumns
	updated, err := scanCategory(r.pool.QueryRow(ctx, q, c.Name, c.Description, c.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Category", "id", c.ID)
		}
		r.logger.Printf("category repo: update id=%d error=%v", c.ID, err)
		return nil, err
	}
	return updated, nil
}

// EnsureByName returns the active category with the given name, creating it
// when absent. Used by the importer and the seeder.
func (r *postgresRepo) EnsureByName(ctx context.Context, name string) (*domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE lower(name) = lower($1) AND active`
	c, err := scanCategory(r.pool.QueryRow(ctx, q, name))
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return r.Create(ctx, domain.Category{Name: name, Active: true})
	default:
		r.logger.Printf("category repo: ensure name=%s error=%v", name, err)
		return nil, err
	}
}

func (r *postgresRepo) SetInactive(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE categories SET active = FALSE, updated_at = now() WHERE id = $1 AND active`, id)
	if err != nil {
		r.logger.Printf("category repo: set inactive id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("Category", "id", id)
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
