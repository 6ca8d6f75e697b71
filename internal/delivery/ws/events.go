package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatrooms/internal/domain"
)

// Wire event discriminators. Clients switch on the "event" field; there is
// no unknown-variant escape hatch, so adding a kind means updating clients.
const (
	EventMessage = "message"
	EventEnter   = "enter"
	EventLeave   = "leave"
)

// ErrMalformedEvent is returned for any inbound frame that is not a valid
// message submission. Malformed frames are fatal to the connection.
var ErrMalformedEvent = errors.New("ws: malformed event")

// PresenceData is the payload of enter and leave events. Users is the room
// roster at the moment the event was generated, one entry per connection,
// not a delta.
type PresenceData struct {
	UserID int       `json:"user_id"`
	Users  []int     `json:"users"`
	Time   time.Time `json:"time"`
}

type outboundEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// EncodeEnter serializes an enter event. The payload is encoded once and
// the same bytes go to every recipient.
func EncodeEnter(userID int, users []int, at time.Time) ([]byte, error) {
	return json.Marshal(outboundEvent{
		Event: EventEnter,
		Data:  PresenceData{UserID: userID, Users: users, Time: at},
	})
}

// EncodeLeave serializes a leave event.
func EncodeLeave(userID int, users []int, at time.Time) ([]byte, error) {
	return json.Marshal(outboundEvent{
		Event: EventLeave,
		Data:  PresenceData{UserID: userID, Users: users, Time: at},
	})
}

// EncodeMessage serializes a message event from a persisted record.
func EncodeMessage(msg domain.Message) ([]byte, error) {
	return json.Marshal(outboundEvent{Event: EventMessage, Data: msg})
}

// Inbound is the only frame shape accepted from clients: a chat message
// submission.
type Inbound struct {
	RoomID  int
	Content string
}

// DecodeInbound parses a client frame. The event must be "message" and the
// data must carry an integer room_id and a string content; anything missing
// or mistyped fails the decode. No coercion, no default filling.
func DecodeInbound(raw []byte) (Inbound, error) {
	var envelope struct {
		Event *string         `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if envelope.Event == nil || *envelope.Event != EventMessage {
		return Inbound{}, fmt.Errorf("%w: expected %q event", ErrMalformedEvent, EventMessage)
	}
	if len(envelope.Data) == 0 {
		return Inbound{}, fmt.Errorf("%w: missing data", ErrMalformedEvent)
	}
	var data struct {
		RoomID  *int    `json:"room_id"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if data.RoomID == nil {
		return Inbound{}, fmt.Errorf("%w: missing room_id", ErrMalformedEvent)
	}
	if data.Content == nil {
		return Inbound{}, fmt.Errorf("%w: missing content", ErrMalformedEvent)
	}
	return Inbound{RoomID: *data.RoomID, Content: *data.Content}, nil
}
