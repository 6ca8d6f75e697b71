package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"chatrooms/internal/domain"
)

const todoColumns = "id, status, description, created_by, created_at, modified_at"

var todoSortable = []string{"id", "status", "created_by", "created_at", "modified_at"}

// GetTodosByCreatedBy returns a page of one user's todos.
func (s *Store) GetTodosByCreatedBy(ctx context.Context, createdBy int, page Page) ([]domain.Todo, error) {
	clauses, err := page.clauses(todoSortable...)
	if err != nil {
		return nil, err
	}
	rows, _ := s.pool.Query(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE created_by = $1`+clauses, createdBy)
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Todo])
}

// GetTodoByID returns the todo with the given id, or ErrNotFound.
func (s *Store) GetTodoByID(ctx context.Context, id int) (domain.Todo, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	todo, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Todo])
	if err != nil {
		return domain.Todo{}, notFound(err)
	}
	return todo, nil
}

// CreateTodo inserts a todo.
func (s *Store) CreateTodo(ctx context.Context, in domain.TodoIn, createdBy int, createdAt, modifiedAt time.Time) (domain.Todo, error) {
	rows, _ := s.pool.Query(ctx,
		`INSERT INTO todos(status, description, created_by, created_at, modified_at)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING `+todoColumns,
		in.Status, in.Description, createdBy, createdAt, modifiedAt)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Todo])
}

// UpdateTodo replaces the todo's status and description.
func (s *Store) UpdateTodo(ctx context.Context, id int, in domain.TodoIn, modifiedAt time.Time) (domain.Todo, error) {
	rows, _ := s.pool.Query(ctx,
		`UPDATE todos SET status = $2, description = $3, modified_at = $4
		 WHERE id = $1
		 RETURNING `+todoColumns,
		id, in.Status, in.Description, modifiedAt)
	todo, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Todo])
	if err != nil {
		return domain.Todo{}, notFound(err)
	}
	return todo, nil
}

// DeleteTodo removes a todo; reports whether a row was deleted.
func (s *Store) DeleteTodo(ctx context.Context, id int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
