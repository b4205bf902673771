package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royal-fernet/storefront/internal/domain/store"
)

var _ store.Repository = (*StoreRepository)(nil)

// StoreRepository implements store.Repository backed by PostgreSQL.
type StoreRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository returns a StoreRepository that uses the given pool.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

// List returns all store locations ordered by ID.
func (r *StoreRepository) List(ctx context.Context) ([]store.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, city, phone, hours, map_embed_url, image_url
		FROM store_locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	var locations []store.Location
	for rows.Next() {
		var loc store.Location
		err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.City,
			&loc.Phone, &loc.Hours, &loc.MapEmbedURL, &loc.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("scanning store: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	return locations, nil
}

// Create inserts a new store location.
func (r *StoreRepository) Create(ctx context.Context, loc *store.Location) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO store_locations (name, address, city, phone, hours, map_embed_url, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		loc.Name, loc.Address, loc.City, loc.Phone, loc.Hours, loc.MapEmbedURL, loc.ImageURL,
	).Scan(&loc.ID)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	return nil
}

// Update replaces all fields of an existing store location.
func (r *StoreRepository) Update(ctx context.Context, loc *store.Location) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE store_locations
		SET name = $2, address = $3, city = $4, phone = $5, hours = $6,
		    map_embed_url = $7, image_url = $8
		WHERE id = $1`,
		loc.ID, loc.Name, loc.Address, loc.City, loc.Phone, loc.Hours,
		loc.MapEmbedURL, loc.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("updating store %d: %w", loc.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a store location by ID.
func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM store_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting store %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
