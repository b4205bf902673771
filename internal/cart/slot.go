package cart

import (
	"context"
	"sync"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/royal-fernet/storefront/internal/domain/product"
)

// Namespace is the fixed key under which the storefront persists its cart.
// It matches the slot name the web client has always used, so carts written
// by either side remain interchangeable.
const Namespace = "royal-fernet-cart"

// schemaVersion is the persisted envelope version. Payloads carrying any
// other version are discarded on read rather than migrated.
const schemaVersion = 1

// Slot is a single named entry of durable key-value storage. Load returns
// (nil, nil) when the slot has never been written.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, payload []byte) error
}

// MemorySlot is an in-process Slot, used by tests and short-lived sessions.
type MemorySlot struct {
	mu      sync.Mutex
	payload []byte
}

// Load returns the last stored payload.
func (s *MemorySlot) Load(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload, nil
}

// Store replaces the payload whole.
func (s *MemorySlot) Store(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
	return nil
}

// encodeEnvelope serializes line items into the versioned slot envelope:
//
//	{"namespace": "...", "version": 1, "items": [{"product": {...}, "quantity": N}, ...]}
func encodeEnvelope(items []Item) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("namespace")
	e.Str(Namespace)
	e.FieldStart("version")
	e.Int(schemaVersion)
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(&e, it.Product)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("price")
	e.Str(p.Price.String())
	e.FieldStart("discount")
	e.Int(p.Discount)
	e.FieldStart("stock")
	e.Int(p.Stock)
	e.FieldStart("images")
	e.ArrStart()
	for _, img := range p.Images {
		e.Str(img)
	}
	e.ArrEnd()
	e.FieldStart("is_featured")
	e.Bool(p.Featured)
	e.ObjEnd()
}

// decodeEnvelope parses a slot payload. It returns ok=false for anything
// that is not a well-formed envelope of the current schema version; callers
// treat that as an empty cart.
func decodeEnvelope(payload []byte) ([]Item, bool) {
	d := jx.DecodeBytes(payload)

	var (
		version = -1
		items   []Item
		broken  bool
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			if err != nil {
				return err
			}
			version = v
			return nil
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				it, ok, err := decodeItem(d)
				if err != nil {
					return err
				}
				if !ok {
					broken = true
					return nil
				}
				items = append(items, it)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil || broken || version != schemaVersion {
		return nil, false
	}
	return items, true
}

func decodeItem(d *jx.Decoder) (Item, bool, error) {
	var (
		it    Item
		valid = true
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "product":
			p, ok, err := decodeProduct(d)
			if err != nil {
				return err
			}
			if !ok {
				valid = false
				return nil
			}
			it.Product = p
			return nil
		case "quantity":
			q, err := d.Int()
			if err != nil {
				return err
			}
			it.Quantity = q
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Item{}, false, err
	}
	if it.Product.ID == "" || it.Quantity < 1 {
		valid = false
	}
	return it, valid, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, bool, error) {
	var (
		p     product.Product
		valid = true
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "name":
			v, err := d.Str()
			p.Name = v
			return err
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "category":
			v, err := d.Str()
			p.Category = v
			return err
		case "price":
			raw, err := d.Str()
			if err != nil {
				return err
			}
			price, perr := decimal.NewFromString(raw)
			if perr != nil {
				valid = false
				return nil
			}
			p.Price = price
			return nil
		case "discount":
			v, err := d.Int()
			p.Discount = v
			return err
		case "stock":
			v, err := d.Int()
			p.Stock = v
			return err
		case "images":
			return d.Arr(func(d *jx.Decoder) error {
				img, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, img)
				return nil
			})
		case "is_featured":
			v, err := d.Bool()
			p.Featured = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return product.Product{}, false, err
	}
	return p, valid, nil
}
