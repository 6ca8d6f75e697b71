package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chatrooms/internal/database"
	"chatrooms/internal/domain"
)

func wsURL(srv *httptest.Server, roomID int) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/rooms/" + strconv.Itoa(roomID)
}

func dialRoom(t *testing.T, srv *httptest.Server, roomID int, authHeader string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	if authHeader != "" {
		header.Set("Authorization", authHeader)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, roomID), header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial room %d: %v (status %d)", roomID, err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode event %q: %v", raw, err)
	}
	return envelope.Event, envelope.Data
}

func TestRoomSocket_EndToEnd(t *testing.T) {
	h, store := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	room, err := store.CreateRoom(context.Background(), domain.RoomIn{Name: "general"}, 1, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}

	alice := dialRoom(t, srv, room.ID, bearer(t, h, "alice"))
	if event, _ := readEvent(t, alice); event != "enter" {
		t.Fatalf("expected alice's own enter, got %q", event)
	}

	bob := dialRoom(t, srv, room.ID, bearer(t, h, "bob"))
	if event, _ := readEvent(t, bob); event != "enter" {
		t.Fatalf("expected bob's enter on bob's socket, got %q", event)
	}
	event, data := readEvent(t, alice)
	if event != "enter" {
		t.Fatalf("expected bob's enter on alice's socket, got %q", event)
	}
	var presence struct {
		UserID int   `json:"user_id"`
		Users  []int `json:"users"`
	}
	if err := json.Unmarshal(data, &presence); err != nil {
		t.Fatalf("decode presence: %v", err)
	}
	if presence.UserID != 2 || len(presence.Users) != 2 {
		t.Errorf("unexpected presence data: %+v", presence)
	}

	submit := map[string]any{
		"event": "message",
		"data":  map[string]any{"room_id": room.ID, "content": "hello"},
	}
	if err := alice.WriteJSON(submit); err != nil {
		t.Fatalf("write message: %v", err)
	}

	for _, conn := range []*websocket.Conn{alice, bob} {
		event, data := readEvent(t, conn)
		if event != "message" {
			t.Fatalf("expected message event, got %q", event)
		}
		var msg domain.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Content != "hello" || msg.CreatedBy != 1 || msg.RoomID != room.ID {
			t.Errorf("unexpected message: %+v", msg)
		}
	}

	messages, err := store.GetMessagesByRoomID(context.Background(), room.ID, database.DefaultPage())
	if err != nil {
		t.Fatalf("read back messages: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("expected 1 persisted message, got %d", len(messages))
	}

	alice.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	alice.Close()

	event, data = readEvent(t, bob)
	if event != "leave" {
		t.Fatalf("expected leave on bob's socket, got %q", event)
	}
	if err := json.Unmarshal(data, &presence); err != nil {
		t.Fatalf("decode presence: %v", err)
	}
	if presence.UserID != 1 || len(presence.Users) != 1 || presence.Users[0] != 2 {
		t.Errorf("unexpected leave data: %+v", presence)
	}
}

func TestRoomSocket_UnknownRoom(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", bearer(t, h, "alice"))
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, 999), header)
	if err == nil {
		t.Fatal("expected handshake failure for unknown room")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 handshake response, got %+v", resp)
	}
}

func TestRoomSocket_Unauthenticated(t *testing.T) {
	h, store := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	room, err := store.CreateRoom(context.Background(), domain.RoomIn{Name: "general"}, 1, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID), nil)
	if err == nil {
		t.Fatal("expected handshake failure without credentials")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 handshake response, got %+v", resp)
	}
}
