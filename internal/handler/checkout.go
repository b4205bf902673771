package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/royal-fernet/storefront/internal/checkout"
)

type checkoutJSON struct {
	Summary string  `json:"summary"`
	Link    string  `json:"link"`
	Total   float64 `json:"total"`
}

// postCheckout hands the cart off to the messaging channel and clears it.
func (h *Handler) postCheckout(w http.ResponseWriter, r *http.Request) {
	if !h.checkout.Configured() {
		respondError(w, r, http.StatusServiceUnavailable, "checkout is not configured")
		return
	}

	c := h.openCart(r, w)
	total := c.Total()

	handoff, err := h.checkout.Handoff(c.Items())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, r, http.StatusUnprocessableEntity, "cart is empty")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "build handoff"))
		return
	}

	// The hand-off succeeded; the in-progress order is done.
	c.Clear(r.Context())

	respondJSON(w, r, http.StatusOK, checkoutJSON{
		Summary: handoff.Summary,
		Link:    handoff.Link,
		Total:   total.InexactFloat64(),
	})
}
