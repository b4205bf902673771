// Package cart implements the shopping cart state container and its
// persisted slot adapter. The container is the single writer of cart state:
// it enforces the one-line-item-per-product invariant, keeps quantities
// positive, and recomputes the discount-aware total on every read. State is
// mirrored to a durable Slot after every mutation on a best-effort basis;
// the in-memory list stays authoritative when the slot misbehaves.
package cart

import (
	"context"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/royal-fernet/storefront/internal/domain/product"
)

// Item is one cart line: a product snapshot plus a positive quantity.
// At most one Item per product ID exists within a cart.
type Item struct {
	Product  product.Product
	Quantity int
}

// Event describes a completed Add mutation, delivered to the notify hook so
// the UI layer can acknowledge it (the storefront shows a toast).
type Event struct {
	Product  product.Product
	Quantity int
}

// NotifyFunc receives acknowledgment events after Add mutations.
type NotifyFunc func(Event)

// Option configures a Container.
type Option func(*Container)

// WithNotify installs a hook invoked after every successful Add.
func WithNotify(fn NotifyFunc) Option {
	return func(c *Container) { c.notify = fn }
}

// WithLogger sets the logger used for slot failures. Defaults to zap.NewNop.
func WithLogger(lg *zap.Logger) Option {
	return func(c *Container) { c.lg = lg }
}

// WithSyncPersist makes slot writes happen synchronously on the mutating
// call instead of in a background goroutine. Write errors are still
// swallowed. Request-scoped containers want this so the write lands before
// the response is sent.
func WithSyncPersist() Option {
	return func(c *Container) { c.syncPersist = true }
}

// Container is the single source of truth for an in-progress order.
// All mutations go through its methods; consumers read snapshots via Items
// and Total. Safe for concurrent use.
type Container struct {
	slot        Slot
	notify      NotifyFunc
	lg          *zap.Logger
	syncPersist bool

	mu    sync.Mutex
	items []Item
	gen   uint64

	storeMu   sync.Mutex
	storedGen uint64
}

// NewContainer creates a Container hydrated once from slot. A missing,
// unreadable, or malformed slot payload yields an empty cart; hydration
// never fails.
func NewContainer(ctx context.Context, slot Slot, opts ...Option) *Container {
	c := &Container{
		slot: slot,
		lg:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	payload, err := slot.Load(ctx)
	if err != nil {
		c.lg.Warn("cart slot read failed, starting empty", zap.Error(err))
		return c
	}
	if len(payload) == 0 {
		return c
	}
	items, ok := decodeEnvelope(payload)
	if !ok {
		c.lg.Warn("cart slot payload malformed, starting empty")
		return c
	}
	c.items = items
	return c
}

// Add merges quantity into the existing line item for p, or appends a new
// line at the end. Quantities below 1 count as 1. It always succeeds.
func (c *Container) Add(ctx context.Context, p product.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	merged := false
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, Item{Product: p, Quantity: quantity})
	}
	c.persistLocked(ctx)
	c.mu.Unlock()

	if c.notify != nil {
		c.notify(Event{Product: p, Quantity: quantity})
	}
}

// Remove deletes the line item for productID. Absent IDs are a no-op.
func (c *Container) Remove(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(it Item) bool {
		return it.Product.ID == productID
	})
	if len(c.items) != before {
		c.persistLocked(ctx)
	}
}

// SetQuantity sets the line item's quantity to exactly quantity. A value
// below 1 removes the line item. Absent IDs are a no-op.
func (c *Container) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		c.Remove(ctx, productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			c.persistLocked(ctx)
			return
		}
	}
}

// Clear removes all line items unconditionally.
func (c *Container) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.persistLocked(ctx)
}

// Items returns a copy of the line items in insertion order.
func (c *Container) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of line items.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total returns the cart total: the sum over line items of the discounted
// unit price times quantity. It is recomputed on every call so a changed
// product discount is always reflected.
func (c *Container) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		line := it.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}

// persistLocked mirrors the current items to the slot. The write is best
// effort: failures are logged and swallowed, never surfaced to the mutating
// caller. Callers must hold c.mu.
func (c *Container) persistLocked(ctx context.Context) {
	payload := encodeEnvelope(c.items)
	c.gen++
	gen := c.gen
	if c.syncPersist {
		c.storeSlot(ctx, gen, payload)
		return
	}
	go c.storeSlot(context.WithoutCancel(ctx), gen, payload)
}

// storeSlot writes payload unless a newer snapshot already landed. Background
// writes from consecutive mutations may be scheduled in any order; the
// generation check keeps the slot converging on the latest in-memory state.
func (c *Container) storeSlot(ctx context.Context, gen uint64, payload []byte) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	if gen <= c.storedGen {
		return
	}
	c.storedGen = gen
	if err := c.slot.Store(ctx, payload); err != nil {
		c.lg.Warn("cart slot write failed", zap.Error(err))
	}
}
