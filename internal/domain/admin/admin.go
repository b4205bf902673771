package admin

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for admin management.
var (
	// ErrNotFound is returned when a requested administrator does not exist.
	ErrNotFound = errors.New("administrator not found")
	// ErrDuplicateEmail is returned when creating an admin with an email
	// that is already registered.
	ErrDuplicateEmail = errors.New("admin email already exists")
	// ErrLastAdmin is returned when a delete would remove the final
	// administrator account.
	ErrLastAdmin = errors.New("cannot delete the last administrator")
)

// Admin is a dashboard administrator account. Credential material is owned
// by the external identity layer and never stored here.
type Admin struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Repository defines persistence operations for administrator accounts.
// Delete enforces the last-admin rule and returns ErrLastAdmin when the
// target is the only remaining account.
type Repository interface {
	List(ctx context.Context, query string) ([]Admin, error)
	Create(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id int64) error
}
