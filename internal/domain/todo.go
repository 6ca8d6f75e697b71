package domain

import "time"

// TodoStatus is one of the three todo workflow states.
type TodoStatus string

const (
	TodoStatusTodo       TodoStatus = "todo"
	TodoStatusInProgress TodoStatus = "in progress"
	TodoStatusDone       TodoStatus = "done"
)

// Valid reports whether s is a known status.
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusTodo, TodoStatusInProgress, TodoStatusDone:
		return true
	}
	return false
}

// TodoIn is the shape used to create or update a todo.
type TodoIn struct {
	Status      TodoStatus `json:"status"`
	Description string     `json:"description"`
}

// Todo is a persisted todo item, owned by its creator.
type Todo struct {
	ID          int        `json:"id" db:"id"`
	Status      TodoStatus `json:"status" db:"status"`
	Description string     `json:"description" db:"description"`
	CreatedBy   int        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ModifiedAt  time.Time  `json:"modified_at" db:"modified_at"`
}
