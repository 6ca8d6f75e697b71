package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"chatrooms/internal/domain"
)

const userColumns = "id, email, username, digest, is_active, created_at, avatar_id"

var userSortable = []string{"id", "email", "username", "is_active", "created_at"}

// GetUserByID returns the user with the given id, or ErrNotFound.
func (s *Store) GetUserByID(ctx context.Context, id int) (domain.UserDB, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.UserDB])
	if err != nil {
		return domain.UserDB{}, notFound(err)
	}
	return user, nil
}

// GetUserByUsername returns the user with the given username, or ErrNotFound.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.UserDB, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.UserDB])
	if err != nil {
		return domain.UserDB{}, notFound(err)
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.UserDB, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.UserDB])
	if err != nil {
		return domain.UserDB{}, notFound(err)
	}
	return user, nil
}

// GetUsers returns a page of users.
func (s *Store) GetUsers(ctx context.Context, page Page) ([]domain.UserDB, error) {
	clauses, err := page.clauses(userSortable...)
	if err != nil {
		return nil, err
	}
	rows, _ := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+clauses)
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.UserDB])
}

// CreateUser inserts a user. The digest is the bcrypt hash of the password;
// plain passwords never reach this layer.
func (s *Store) CreateUser(ctx context.Context, in domain.UserIn, digest string, createdAt time.Time, isActive bool) (domain.UserDB, error) {
	rows, _ := s.pool.Query(ctx,
		`INSERT INTO users(email, username, digest, is_active, created_at, avatar_id)
		 VALUES($1, $2, $3, $4, $5, NULL)
		 RETURNING `+userColumns,
		in.Email, in.Username, digest, isActive, createdAt)
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.UserDB])
	if err != nil {
		return domain.UserDB{}, duplicate(err)
	}
	return user, nil
}

// UpdateUserAvatar points the user's avatar at a file row.
func (s *Store) UpdateUserAvatar(ctx context.Context, userID, avatarID int) (domain.UserDB, error) {
	rows, _ := s.pool.Query(ctx,
		`UPDATE users SET avatar_id = $2 WHERE id = $1 RETURNING `+userColumns,
		userID, avatarID)
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.UserDB])
	if err != nil {
		return domain.UserDB{}, notFound(err)
	}
	return user, nil
}

// DeleteUser removes a user row; reports whether a row was deleted.
func (s *Store) DeleteUser(ctx context.Context, id int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
