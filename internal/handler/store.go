package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/royal-fernet/storefront/internal/domain/store"
)

type storeJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Hours       string `json:"hours"`
	MapEmbedURL string `json:"map_embed_url"`
	ImageURL    string `json:"image_url"`
}

type storeRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Hours       string `json:"hours"`
	MapEmbedURL string `json:"map_embed_url"`
	ImageURL    string `json:"image_url"`
}

func (req storeRequest) validate() string {
	switch {
	case req.Name == "":
		return "name is required"
	case req.Address == "":
		return "address is required"
	case req.City == "":
		return "city is required"
	default:
		return ""
	}
}

func (h *Handler) storeToJSON(loc store.Location) storeJSON {
	return storeJSON{
		ID:          loc.ID,
		Name:        loc.Name,
		Address:     loc.Address,
		City:        loc.City,
		Phone:       loc.Phone,
		Hours:       loc.Hours,
		MapEmbedURL: loc.MapEmbedURL,
		ImageURL:    h.absURL(loc.ImageURL),
	}
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	locations, err := h.stores.List(r.Context())
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "list stores"))
		return
	}

	out := make([]storeJSON, len(locations))
	for i, loc := range locations {
		out[i] = h.storeToJSON(loc)
	}
	respondJSON(w, r, http.StatusOK, out)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	loc := &store.Location{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Hours:       req.Hours,
		MapEmbedURL: req.MapEmbedURL,
		ImageURL:    req.ImageURL,
	}
	if err := h.stores.Create(r.Context(), loc); err != nil {
		respondInternal(w, r, errors.Wrap(err, "create store"))
		return
	}
	respondJSON(w, r, http.StatusCreated, h.storeToJSON(*loc))
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid store id")
		return
	}

	var req storeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	loc := &store.Location{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Hours:       req.Hours,
		MapEmbedURL: req.MapEmbedURL,
		ImageURL:    req.ImageURL,
	}
	if err := h.stores.Update(r.Context(), loc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "store location not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "update store"))
		return
	}
	respondJSON(w, r, http.StatusOK, h.storeToJSON(*loc))
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid store id")
		return
	}

	if err := h.stores.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "store location not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "delete store"))
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "store deleted"})
}
