// Package handler exposes the storefront and admin dashboard HTTP API.
// Handlers decode requests, delegate to the domain repositories and
// services, and map domain errors onto the {code, message} error envelope.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/royal-fernet/storefront/internal/cart"
	"github.com/royal-fernet/storefront/internal/checkout"
	"github.com/royal-fernet/storefront/internal/chat"
	"github.com/royal-fernet/storefront/internal/domain/admin"
	"github.com/royal-fernet/storefront/internal/domain/notification"
	"github.com/royal-fernet/storefront/internal/domain/product"
	"github.com/royal-fernet/storefront/internal/domain/settings"
	"github.com/royal-fernet/storefront/internal/domain/store"
)

// CartSlots hands out a durable cart slot per cart token.
type CartSlots interface {
	Slot(token string) cart.Slot
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler implements the storefront HTTP API.
type Handler struct {
	cfg           Config
	products      product.Repository
	admins        admin.Repository
	stores        store.Repository
	settings      settings.Repository
	notifications notification.Repository
	carts         CartSlots
	checkout      *checkout.Service
	chat          *chat.Service
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	cfg Config,
	products product.Repository,
	admins admin.Repository,
	stores store.Repository,
	settingsRepo settings.Repository,
	notifications notification.Repository,
	carts CartSlots,
	checkoutSvc *checkout.Service,
	chatSvc *chat.Service,
) *Handler {
	return &Handler{
		cfg:           cfg,
		products:      products,
		admins:        admins,
		stores:        stores,
		settings:      settingsRepo,
		notifications: notifications,
		carts:         carts,
		checkout:      checkoutSvc,
		chat:          chatSvc,
	}
}

// Register attaches all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.deleteProduct)

	mux.HandleFunc("GET /api/admins", h.listAdmins)
	mux.HandleFunc("POST /api/admins", h.createAdmin)
	mux.HandleFunc("DELETE /api/admins/{id}", h.deleteAdmin)

	mux.HandleFunc("GET /api/stores", h.listStores)
	mux.HandleFunc("POST /api/stores", h.createStore)
	mux.HandleFunc("PUT /api/stores/{id}", h.updateStore)
	mux.HandleFunc("DELETE /api/stores/{id}", h.deleteStore)

	mux.HandleFunc("GET /api/settings", h.getSettings)
	mux.HandleFunc("PUT /api/settings", h.saveSettings)

	mux.HandleFunc("POST /api/notifications", h.createNotification)
	mux.HandleFunc("GET /api/notifications/latest", h.latestNotification)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{productId}", h.updateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)

	mux.HandleFunc("POST /api/checkout", h.postCheckout)
	mux.HandleFunc("POST /api/chat", h.postChat)
}

// errorResponse is the error envelope shared by all endpoints.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Warn("response encoding failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, errorResponse{Code: status, Message: message})
}

// respondInternal logs err and responds with a generic 500 so internals
// never leak to clients.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	respondError(w, r, http.StatusInternalServerError, "internal error")
}

// decodeBody decodes a JSON request body, rejecting unknown garbage early.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

// absURL prepends the configured image base URL to relative paths.
// Absolute URLs and empty strings pass through unchanged.
func (h *Handler) absURL(path string) string {
	if path == "" || h.cfg.ImageBaseURL == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return h.cfg.ImageBaseURL + path
}

func (h *Handler) absURLs(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = h.absURL(p)
	}
	return out
}
