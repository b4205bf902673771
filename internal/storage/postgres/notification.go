package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royal-fernet/storefront/internal/domain/notification"
)

var _ notification.Repository = (*NotificationRepository)(nil)

// NotificationRepository implements notification.Repository backed by
// PostgreSQL.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a NotificationRepository using the
// given pool.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (message, image_url, link_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		n.Message, n.ImageURL, n.LinkURL,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// Latest returns the most recently created notification.
func (r *NotificationRepository) Latest(ctx context.Context) (*notification.Notification, error) {
	var n notification.Notification
	err := r.pool.QueryRow(ctx, `
		SELECT id, message, image_url, link_url, created_at
		FROM notifications ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&n.ID, &n.Message, &n.ImageURL, &n.LinkURL, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotFound
		}
		return nil, fmt.Errorf("getting latest notification: %w", err)
	}
	return &n, nil
}
