package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royal-fernet/storefront/internal/domain/product"
)

// productJSON is the wire shape of a catalog product.
type productJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Discount    int       `json:"discount"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// productRequest is the create/update payload. Price accepts a JSON number
// or a numeric string so the dashboard form can post either.
type productRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Price       json.Number `json:"price"`
	Discount    int         `json:"discount"`
	Stock       *int        `json:"stock"`
	Images      []string    `json:"images"`
	IsFeatured  bool        `json:"is_featured"`
}

func (h *Handler) productToJSON(p product.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.InexactFloat64(),
		Discount:    p.Discount,
		Stock:       p.Stock,
		Images:      h.absURLs(p.Images),
		IsFeatured:  p.Featured,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "list products"))
		return
	}

	out := make([]productJSON, len(products))
	for i, p := range products {
		out[i] = h.productToJSON(p)
	}
	respondJSON(w, r, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "get product"))
		return
	}
	respondJSON(w, r, http.StatusOK, h.productToJSON(*p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p, msg := req.toDomain(uuid.New().String())
	if msg != "" {
		respondError(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.products.Create(r.Context(), p); err != nil {
		respondInternal(w, r, errors.Wrap(err, "create product"))
		return
	}
	respondJSON(w, r, http.StatusCreated, h.productToJSON(*p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p, msg := req.toDomain(r.PathValue("id"))
	if msg != "" {
		respondError(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.products.Update(r.Context(), p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "update product"))
		return
	}
	respondJSON(w, r, http.StatusOK, h.productToJSON(*p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "delete product"))
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "product deleted"})
}

// toDomain validates the request and builds the domain product. It returns
// a non-empty message describing the first validation failure.
func (req productRequest) toDomain(id string) (*product.Product, string) {
	if req.Name == "" {
		return nil, "name is required"
	}
	if req.Category == "" {
		return nil, "category is required"
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil || !price.IsPositive() {
		return nil, "price must be a positive number"
	}
	if req.Discount < 0 || req.Discount > 100 {
		return nil, "discount must be between 0 and 100"
	}

	stock := 100
	if req.Stock != nil {
		stock = *req.Stock
	}
	if stock < 0 {
		return nil, "stock must not be negative"
	}

	return &product.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		Discount:    req.Discount,
		Stock:       stock,
		Images:      req.Images,
		Featured:    req.IsFeatured,
	}, ""
}
