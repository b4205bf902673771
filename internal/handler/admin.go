package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/royal-fernet/storefront/internal/domain/admin"
)

type adminJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type adminRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "list admins"))
		return
	}

	out := make([]adminJSON, len(admins))
	for i, a := range admins {
		out[i] = adminJSON{ID: a.ID, Name: a.Name, Email: a.Email}
	}
	respondJSON(w, r, http.StatusOK, out)
}

func (h *Handler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		respondError(w, r, http.StatusUnprocessableEntity, "name and email are required")
		return
	}

	a := &admin.Admin{Name: req.Name, Email: req.Email}
	if err := h.admins.Create(r.Context(), a); err != nil {
		if errors.Is(err, admin.ErrDuplicateEmail) {
			respondError(w, r, http.StatusConflict, "admin with that email already exists")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "create admin"))
		return
	}
	respondJSON(w, r, http.StatusCreated, adminJSON{ID: a.ID, Name: a.Name, Email: a.Email})
}

func (h *Handler) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid admin id")
		return
	}

	if err := h.admins.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, admin.ErrLastAdmin):
			respondError(w, r, http.StatusBadRequest, "cannot delete the last administrator")
		case errors.Is(err, admin.ErrNotFound):
			respondError(w, r, http.StatusNotFound, "administrator not found")
		default:
			respondInternal(w, r, errors.Wrap(err, "delete admin"))
		}
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "administrator deleted"})
}
