package http

import (
	"net/http"
	"strings"
	"time"

	"chatrooms/internal/delivery/ws"
	"chatrooms/internal/domain"
)

func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	rooms, err := h.store.GetRooms(r.Context(), page)
	if err != nil {
		storeError(w, err, "")
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in domain.RoomIn
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	room, err := h.store.CreateRoom(r.Context(), in, user.ID, time.Now().UTC())
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	id, ok := pathInt(w, r, "room_id")
	if !ok {
		return
	}
	room, err := h.store.GetRoomByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// serveRoomSocket runs the websocket session for a room. Authentication and
// the room existence check happen before the upgrade; past that point errors
// travel on the socket, not as HTTP statuses.
func (h *Handler) serveRoomSocket(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	roomID, ok := pathInt(w, r, "room_id")
	if !ok {
		return
	}
	if _, err := h.store.GetRoomByID(r.Context(), roomID); err != nil {
		storeError(w, err, "Not Found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		return
	}
	sess := ws.NewSession(h.registry, h.store, conn, user.User, roomID)
	sess.Serve(r.Context())
}
