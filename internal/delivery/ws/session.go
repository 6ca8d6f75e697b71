package ws

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chatrooms/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Per-session outbound buffer. A session that falls this far behind
	// misses events instead of blocking broadcasters.
	sendBufferSize = 256
)

// MessageStore persists chat messages submitted over a session.
type MessageStore interface {
	CreateMessage(ctx context.Context, in domain.MessageIn, createdBy int, createdAt time.Time) (domain.Message, error)
}

// Session is one live websocket connection bound to a room and a user.
// It is owned by the goroutine running Serve: registry membership, message
// handling and teardown all happen there. Other sessions only ever touch
// its send queue.
type Session struct {
	id       string
	roomID   int
	user     domain.User
	registry *Registry
	store    MessageStore
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
}

// NewSession wraps an accepted connection. The caller authenticates the user
// and upgrades the transport before constructing the session; a session
// never exists for a connection that did not complete both.
func NewSession(registry *Registry, store MessageStore, conn *websocket.Conn, user domain.User, roomID int) *Session {
	return &Session{
		id:       uuid.NewString(),
		roomID:   roomID,
		user:     user,
		registry: registry,
		store:    store,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// Serve runs the session to completion: announce entry, pump inbound events,
// and on any exit path (remote close, transport error, decode or persistence
// failure) deregister and announce departure exactly once.
func (s *Session) Serve(ctx context.Context) {
	go s.writePump()
	s.connect()
	defer s.disconnect()
	s.readLoop(ctx)
}

// connect registers the session and broadcasts an enter event carrying the
// roster after insertion. Self-inclusion is deliberate: the new client
// learns the current roster in the same shape every other client sees.
func (s *Session) connect() {
	s.registry.Register(s.roomID, s)
	payload, err := EncodeEnter(s.user.ID, s.registry.UserIDs(s.roomID), time.Now().UTC())
	if err != nil {
		log.Printf("ws: session %s: encode enter: %v", s.id, err)
		return
	}
	s.broadcast(payload, true)
}

// disconnect removes the session from the registry, then broadcasts a leave
// event to the remaining connections with the roster after removal. The
// departing session itself receives nothing.
func (s *Session) disconnect() {
	close(s.done)
	if err := s.registry.Deregister(s.roomID, s); err != nil {
		// Lifecycle contract violation: deregister without a prior register.
		log.Printf("ws: session %s: room %d: %v", s.id, s.roomID, err)
		return
	}
	payload, err := EncodeLeave(s.user.ID, s.registry.UserIDs(s.roomID), time.Now().UTC())
	if err != nil {
		log.Printf("ws: session %s: encode leave: %v", s.id, err)
		return
	}
	s.broadcast(payload, false)
}

func (s *Session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: session %s: read: %v", s.id, err)
			}
			return
		}
		if err := s.handleInbound(ctx, raw); err != nil {
			log.Printf("ws: session %s: %v", s.id, err)
			return
		}
	}
}

// handleInbound processes one client frame: strict decode, persist, then
// fan the persisted message out to every connection in the room including
// the sender. Any error is fatal to the connection; the event is dropped.
func (s *Session) handleInbound(ctx context.Context, raw []byte) error {
	in, err := DecodeInbound(raw)
	if err != nil {
		return err
	}
	// The submission carries its own room_id; it must match the room this
	// socket is bound to, otherwise a client could write into rooms it
	// never joined.
	if in.RoomID != s.roomID {
		return fmt.Errorf("%w: room_id %d does not match room %d", ErrMalformedEvent, in.RoomID, s.roomID)
	}
	msg, err := s.store.CreateMessage(ctx, domain.MessageIn{RoomID: s.roomID, Content: in.Content}, s.user.ID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("persist message: %w", err)
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	s.broadcast(payload, true)
	return nil
}

// broadcast enqueues one serialized event to every session in the room's
// current snapshot. Delivery to each recipient is handled by that
// recipient's own write pump, so per-recipient order follows broadcast
// issue order and a dead or slow recipient never affects the broadcaster.
func (s *Session) broadcast(payload []byte, includeSelf bool) {
	for _, peer := range s.registry.Connections(s.roomID) {
		if !includeSelf && peer == s {
			continue
		}
		peer.enqueue(payload)
	}
}

// enqueue is non-blocking: a closed or saturated session simply misses the
// event.
func (s *Session) enqueue(payload []byte) {
	select {
	case <-s.done:
	case s.send <- payload:
	default:
	}
}

// writePump is the single writer on the connection. It drains the send
// queue in FIFO order and keeps the transport alive with pings; any write
// error closes the connection, which the read loop then observes.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
