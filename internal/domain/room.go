package domain

import "time"

// RoomIn is the shape used to create a room.
type RoomIn struct {
	Name string `json:"name"`
}

// Room is a chat room. Rooms partition both persisted messages and live
// websocket connections.
type Room struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
