package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"chatrooms/internal/domain"
)

const messageColumns = "id, room_id, content, created_by, created_at"

var messageSortable = []string{"id", "room_id", "created_by", "created_at"}

// GetMessages returns a page of messages across all rooms.
func (s *Store) GetMessages(ctx context.Context, page Page) ([]domain.Message, error) {
	clauses, err := page.clauses(messageSortable...)
	if err != nil {
		return nil, err
	}
	rows, _ := s.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages`+clauses)
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Message])
}

// GetMessagesByRoomID returns a page of one room's messages.
func (s *Store) GetMessagesByRoomID(ctx context.Context, roomID int, page Page) ([]domain.Message, error) {
	clauses, err := page.clauses(messageSortable...)
	if err != nil {
		return nil, err
	}
	rows, _ := s.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE room_id = $1`+clauses, roomID)
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Message])
}

// GetMessageByID returns the message with the given id, or ErrNotFound.
func (s *Store) GetMessageByID(ctx context.Context, id int) (domain.Message, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	msg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Message])
	if err != nil {
		return domain.Message{}, notFound(err)
	}
	return msg, nil
}

// CreateMessage inserts a message and returns the persisted record. This is
// the write path for both POST /messages and the room websocket.
func (s *Store) CreateMessage(ctx context.Context, in domain.MessageIn, createdBy int, createdAt time.Time) (domain.Message, error) {
	rows, _ := s.pool.Query(ctx,
		`INSERT INTO messages(content, room_id, created_by, created_at)
		 VALUES($1, $2, $3, $4)
		 RETURNING `+messageColumns,
		in.Content, in.RoomID, createdBy, createdAt)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Message])
}
