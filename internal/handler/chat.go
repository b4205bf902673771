package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/royal-fernet/storefront/internal/chat"
)

type chatMessageJSON struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string            `json:"message"`
	History []chatMessageJSON `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	history := make([]chat.Message, 0, len(req.History))
	for _, m := range req.History {
		role := chat.Role(m.Role)
		if role != chat.RoleUser && role != chat.RoleAssistant {
			continue
		}
		history = append(history, chat.Message{Role: role, Content: m.Content})
	}

	reply, err := h.chat.Reply(r.Context(), history, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyQuery) {
			respondError(w, r, http.StatusUnprocessableEntity, "message is required")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "chat reply"))
		return
	}
	respondJSON(w, r, http.StatusOK, chatResponse{Reply: reply})
}
