package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"

	"github.com/royal-fernet/storefront/internal/cart"
	"github.com/royal-fernet/storefront/internal/domain/product"
)

// CartTokenHeader carries the opaque cart token. Requests without one get
// a freshly minted token; the effective token is echoed on every response.
const CartTokenHeader = "X-Cart-Token"

type cartItemJSON struct {
	Product  productJSON `json:"product"`
	Quantity int         `json:"quantity"`
}

type cartJSON struct {
	Items []cartItemJSON `json:"items"`
	Total float64        `json:"total"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// openCart resolves the request's cart token and hydrates its container.
// Slot writes are synchronous so the mutation is durable before the
// response goes out.
func (h *Handler) openCart(r *http.Request, w http.ResponseWriter) *cart.Container {
	token := r.Header.Get(CartTokenHeader)
	if token == "" {
		token = uuid.New().String()
	}
	w.Header().Set(CartTokenHeader, token)

	return cart.NewContainer(r.Context(), h.carts.Slot(token),
		cart.WithSyncPersist(),
		cart.WithLogger(zctx.From(r.Context())),
	)
}

func (h *Handler) cartToJSON(c *cart.Container) cartJSON {
	items := c.Items()
	out := cartJSON{
		Items: make([]cartItemJSON, len(items)),
		Total: c.Total().InexactFloat64(),
	}
	for i, it := range items {
		out.Items[i] = cartItemJSON{
			Product:  h.productToJSON(it.Product),
			Quantity: it.Quantity,
		}
	}
	return out
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c := h.openCart(r, w)
	respondJSON(w, r, http.StatusOK, h.cartToJSON(c))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, r, http.StatusUnprocessableEntity, "product_id is required")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, r, http.StatusUnprocessableEntity, "product "+req.ProductID+" not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "get product"))
		return
	}

	c := h.openCart(r, w)
	c.Add(r.Context(), *p, req.Quantity)
	respondJSON(w, r, http.StatusOK, h.cartToJSON(c))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.openCart(r, w)
	c.SetQuantity(r.Context(), r.PathValue("productId"), req.Quantity)
	respondJSON(w, r, http.StatusOK, h.cartToJSON(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.openCart(r, w)
	c.Remove(r.Context(), r.PathValue("productId"))
	respondJSON(w, r, http.StatusOK, h.cartToJSON(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.openCart(r, w)
	c.Clear(r.Context())
	respondJSON(w, r, http.StatusOK, h.cartToJSON(c))
}
