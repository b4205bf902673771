package notification

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no notification has ever been published.
var ErrNotFound = errors.New("no notifications found")

// Notification is a broadcast message shown to storefront visitors in the
// notification modal. Only the most recent one is ever displayed.
type Notification struct {
	ID        int64
	Message   string
	ImageURL  string
	LinkURL   string
	CreatedAt time.Time
}

// Repository defines persistence operations for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Latest(ctx context.Context) (*Notification, error)
}
