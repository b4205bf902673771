package store

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested store location does not exist.
var ErrNotFound = errors.New("store location not found")

// Location is a physical boutique shown on the stores page.
type Location struct {
	ID          int64
	Name        string
	Address     string
	City        string
	Phone       string
	Hours       string
	MapEmbedURL string
	ImageURL    string
}

// Repository defines persistence operations for store locations.
type Repository interface {
	List(ctx context.Context) ([]Location, error)
	Create(ctx context.Context, loc *Location) error
	Update(ctx context.Context, loc *Location) error
	Delete(ctx context.Context, id int64) error
}
