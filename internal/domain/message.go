package domain

import "time"

// MessageIn is a message submission: the payload of POST /messages and of
// the inbound websocket message event.
type MessageIn struct {
	RoomID  int    `json:"room_id"`
	Content string `json:"content"`
}

// Message is a persisted chat message.
type Message struct {
	ID        int       `json:"id" db:"id"`
	RoomID    int       `json:"room_id" db:"room_id"`
	Content   string    `json:"content" db:"content"`
	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
