package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royal-fernet/storefront/internal/domain/admin"
)

var _ admin.Repository = (*AdminRepository)(nil)

// AdminRepository implements admin.Repository backed by PostgreSQL.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns an AdminRepository that uses the given pool.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// List returns administrators, optionally filtered by a case-insensitive
// substring match on name or email.
func (r *AdminRepository) List(ctx context.Context, query string) ([]admin.Admin, error) {
	sql := `SELECT id, name, email, created_at FROM admins`
	args := []any{}
	if query != "" {
		sql += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+query+"%")
	}
	sql += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var admins []admin.Admin
	for rows.Next() {
		var a admin.Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	return admins, nil
}

// Create inserts a new administrator. Duplicate emails map to
// admin.ErrDuplicateEmail.
func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admins (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		a.Name, a.Email,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return admin.ErrDuplicateEmail
		}
		return fmt.Errorf("creating admin: %w", err)
	}
	return nil
}

// Delete removes an administrator. The count check and the delete run in
// one transaction so two concurrent deletes cannot both pass the
// last-admin guard.
func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count <= 1 {
		return admin.ErrLastAdmin
	}

	tag, err := tx.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting admin %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}
