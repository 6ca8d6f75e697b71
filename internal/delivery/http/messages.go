package http

import (
	"net/http"
	"strconv"
	"time"

	"chatrooms/internal/domain"
)

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	var (
		messages []domain.Message
		err      error
	)
	if raw := r.URL.Query().Get("room_id"); raw != "" {
		roomID, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid room_id value")
			return
		}
		messages, err = h.store.GetMessagesByRoomID(r.Context(), roomID, page)
	} else {
		messages, err = h.store.GetMessages(r.Context(), page)
	}
	if err != nil {
		storeError(w, err, "")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in domain.MessageIn
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.RoomID == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "room_id is required")
		return
	}
	message, err := h.store.CreateMessage(r.Context(), in, user.ID, time.Now().UTC())
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// handleGetMessage returns one message; only its author may read it here.
func (h *Handler) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "message_id")
	if !ok {
		return
	}
	message, err := h.store.GetMessageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "No message found with id: "+strconv.Itoa(id))
		return
	}
	if message.CreatedBy != user.ID {
		writeDetail(w, http.StatusForbidden, "Forbidden")
		return
	}
	writeJSON(w, http.StatusOK, message)
}
