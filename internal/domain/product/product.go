package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Price is the
// list price; Discount is a percentage (0-100) applied at display and cart
// time, never baked into Price.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Discount    int
	Stock       int
	Images      []string
	Featured    bool
	CreatedAt   time.Time
}

// DiscountedPrice returns the unit price after applying the discount
// percentage. A zero discount returns Price unchanged.
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.Discount)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor)
}

// Repository defines persistence operations for the product catalog.
// List filters by a case-insensitive substring match on name or category
// when query is non-empty, newest products first.
type Repository interface {
	List(ctx context.Context, query string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
