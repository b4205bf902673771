package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royal-fernet/storefront/internal/cart"
)

// CartStore hands out durable cart slots keyed by cart token. Each token
// owns one row in the carts table; the row holds the full serialized
// envelope and is replaced whole on every write, so the last writer wins.
type CartStore struct {
	pool *pgxpool.Pool
}

// NewCartStore returns a CartStore that uses the given pool.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// Slot returns the durable slot for a cart token.
func (s *CartStore) Slot(token string) cart.Slot {
	return &cartSlot{pool: s.pool, token: token}
}

type cartSlot struct {
	pool  *pgxpool.Pool
	token string
}

var _ cart.Slot = (*cartSlot)(nil)

// Load reads the slot payload. A never-written token yields (nil, nil).
func (s *cartSlot) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM carts WHERE token = $1`, s.token,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart %q: %w", s.token, err)
	}
	return payload, nil
}

// Store replaces the slot payload whole.
func (s *cartSlot) Store(ctx context.Context, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO carts (token, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (token) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		s.token, payload,
	)
	if err != nil {
		return fmt.Errorf("storing cart %q: %w", s.token, err)
	}
	return nil
}
