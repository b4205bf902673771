// Package checkout turns a cart into an order hand-off: a human-readable
// order summary plus a messaging deep link the storefront opens so the
// customer finishes the purchase over WhatsApp.
package checkout

import (
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/royal-fernet/storefront/internal/cart"
)

// Sentinel errors for checkout.
var (
	// ErrNoRecipient is returned when no messaging recipient is configured.
	// The deployment must set one before checkout can be offered.
	ErrNoRecipient = errors.New("checkout recipient not configured")
	// ErrEmptyCart is returned when a hand-off is requested for an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// Handoff is the result of a checkout: the order summary text and the deep
// link that carries it to the configured messaging channel.
type Handoff struct {
	Summary string
	Link    string
}

// Service builds order hand-offs for a fixed messaging recipient.
type Service struct {
	recipient string
}

// NewService creates a checkout Service. recipient is the international
// phone number of the store's WhatsApp line, digits only; it may be empty,
// in which case Handoff fails with ErrNoRecipient.
func NewService(recipient string) *Service {
	return &Service{recipient: recipient}
}

// Configured reports whether a messaging recipient is set.
func (s *Service) Configured() bool {
	return s.recipient != ""
}

// Handoff builds the order summary for items and the wa.me deep link that
// opens a chat with the store. Line subtotals and the grand total use the
// discounted unit price, formatted as Colombian pesos.
func (s *Service) Handoff(items []cart.Item) (*Handoff, error) {
	if s.recipient == "" {
		return nil, ErrNoRecipient
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var b strings.Builder
	b.WriteString("¡Hola! Quisiera hacer un pedido de los siguientes artículos:\n\n")

	total := decimal.Zero
	for _, it := range items {
		subtotal := it.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(subtotal)

		b.WriteString("*" + it.Product.Name + "*\n")
		b.WriteString("(Ref: " + it.Product.ID + ")\n")
		if len(it.Product.Images) > 0 {
			b.WriteString("Imagen: " + it.Product.Images[0] + "\n")
		}
		b.WriteString("Cantidad: " + formatQuantity(it.Quantity) + "\n")
		b.WriteString("Subtotal: " + FormatPesos(subtotal) + "\n\n")
	}

	b.WriteString("*Monto Total: " + FormatPesos(total) + "*\n\n")
	b.WriteString("Por favor, confirme mi pedido y proporcione los detalles de pago. ¡Gracias!")

	summary := b.String()
	link := "https://wa.me/" + s.recipient + "?text=" + url.QueryEscape(summary)

	return &Handoff{Summary: summary, Link: link}, nil
}

func formatQuantity(q int) string {
	return decimal.NewFromInt(int64(q)).String()
}

// FormatPesos renders an amount as Colombian pesos: no decimals, dots as
// thousands separators, e.g. 1234567.89 -> "$1.234.567".
func FormatPesos(amount decimal.Decimal) string {
	digits := amount.Truncate(0).String()

	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
