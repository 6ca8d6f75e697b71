package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"chatrooms/internal/domain"
)

const roomColumns = "id, name, created_by, created_at"

var roomSortable = []string{"id", "name", "created_by", "created_at"}

// GetRooms returns a page of rooms.
func (s *Store) GetRooms(ctx context.Context, page Page) ([]domain.Room, error) {
	clauses, err := page.clauses(roomSortable...)
	if err != nil {
		return nil, err
	}
	rows, _ := s.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms`+clauses)
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Room])
}

// GetRoomByID returns the room with the given id, or ErrNotFound.
func (s *Store) GetRoomByID(ctx context.Context, id int) (domain.Room, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	room, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Room])
	if err != nil {
		return domain.Room{}, notFound(err)
	}
	return room, nil
}

// GetRoomByName returns the room with the given name, or ErrNotFound.
func (s *Store) GetRoomByName(ctx context.Context, name string) (domain.Room, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE name = $1`, name)
	room, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Room])
	if err != nil {
		return domain.Room{}, notFound(err)
	}
	return room, nil
}

// CreateRoom inserts a room. Room names are unique; a clash returns
// ErrDuplicate.
func (s *Store) CreateRoom(ctx context.Context, in domain.RoomIn, createdBy int, createdAt time.Time) (domain.Room, error) {
	rows, _ := s.pool.Query(ctx,
		`INSERT INTO rooms(name, created_by, created_at)
		 VALUES($1, $2, $3)
		 RETURNING `+roomColumns,
		in.Name, createdBy, createdAt)
	room, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Room])
	if err != nil {
		return domain.Room{}, duplicate(err)
	}
	return room, nil
}
