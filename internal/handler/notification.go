package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/royal-fernet/storefront/internal/domain/notification"
)

type notificationJSON struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"image_url,omitempty"`
	LinkURL   string    `json:"link_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type notificationRequest struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
}

func (h *Handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, r, http.StatusUnprocessableEntity, "message is required")
		return
	}

	n := &notification.Notification{
		Message:  req.Message,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
	}
	if err := h.notifications.Create(r.Context(), n); err != nil {
		respondInternal(w, r, errors.Wrap(err, "create notification"))
		return
	}
	respondJSON(w, r, http.StatusCreated, notificationJSON{
		ID:        n.ID,
		Message:   n.Message,
		ImageURL:  h.absURL(n.ImageURL),
		LinkURL:   n.LinkURL,
		CreatedAt: n.CreatedAt,
	})
}

func (h *Handler) latestNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.Latest(r.Context())
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "no notifications found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "latest notification"))
		return
	}
	respondJSON(w, r, http.StatusOK, notificationJSON{
		ID:        n.ID,
		Message:   n.Message,
		ImageURL:  h.absURL(n.ImageURL),
		LinkURL:   n.LinkURL,
		CreatedAt: n.CreatedAt,
	})
}
