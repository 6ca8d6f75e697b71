package http

import (
	"net/http"
	"strconv"
	"time"

	"chatrooms/internal/domain"
)

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	todos, err := h.store.GetTodosByCreatedBy(r.Context(), user.ID, page)
	if err != nil {
		storeError(w, err, "")
		return
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in domain.TodoIn
	if !decodeJSON(w, r, &in) {
		return
	}
	if !in.Status.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid status: %q", in.Status)
		return
	}
	now := time.Now().UTC()
	todo, err := h.store.CreateTodo(r.Context(), in, user.ID, now, now)
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// ownTodo loads a todo and enforces ownership: 404 for unknown ids, 403 when
// the caller is not the creator.
func (h *Handler) ownTodo(w http.ResponseWriter, r *http.Request, userID int) (domain.Todo, bool) {
	id, ok := pathInt(w, r, "todo_id")
	if !ok {
		return domain.Todo{}, false
	}
	todo, err := h.store.GetTodoByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "No todo found with id: "+strconv.Itoa(id))
		return domain.Todo{}, false
	}
	if todo.CreatedBy != userID {
		writeDetail(w, http.StatusForbidden, "Forbidden")
		return domain.Todo{}, false
	}
	return todo, true
}

func (h *Handler) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	todo, ok := h.ownTodo(w, r, user.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	todo, ok := h.ownTodo(w, r, user.ID)
	if !ok {
		return
	}
	var in domain.TodoIn
	if !decodeJSON(w, r, &in) {
		return
	}
	if !in.Status.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid status: %q", in.Status)
		return
	}
	updated, err := h.store.UpdateTodo(r.Context(), todo.ID, in, time.Now().UTC())
	if err != nil {
		storeError(w, err, "No todo found with id: "+strconv.Itoa(todo.ID))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	todo, ok := h.ownTodo(w, r, user.ID)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteTodo(r.Context(), todo.ID)
	if err != nil {
		storeError(w, err, "")
		return
	}
	status := "deleted"
	if !deleted {
		status = "not found"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
