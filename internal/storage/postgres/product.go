package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royal-fernet/storefront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, category, price, discount, stock, images, is_featured, created_at`

// List returns catalog products newest first. A non-empty query filters by
// a case-insensitive substring match on name or category.
func (r *ProductRepository) List(ctx context.Context, query string) ([]product.Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if query != "" {
		sql += ` WHERE name ILIKE $1 OR category ILIKE $1`
		args = append(args, "%"+query+"%")
	}
	sql += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(imagesOrEmpty(p.Images))
	if err != nil {
		return fmt.Errorf("marshaling product images: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, category, price, discount, stock, images, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.Discount, p.Stock, images, p.Featured,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update replaces all mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(imagesOrEmpty(p.Images))
	if err != nil {
		return fmt.Errorf("marshaling product images: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5,
		    discount = $6, stock = $7, images = $8, is_featured = $9
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.Discount, p.Stock, images, p.Featured,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var (
		p      product.Product
		images []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.Discount, &p.Stock, &images, &p.Featured, &p.CreatedAt)
	if err != nil {
		return product.Product{}, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return product.Product{}, fmt.Errorf("decoding images: %w", err)
	}
	return p, nil
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
