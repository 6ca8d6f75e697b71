// Package http exposes the JSON API and the room websocket endpoint.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"chatrooms/internal/auth"
	"chatrooms/internal/config"
	"chatrooms/internal/database"
	"chatrooms/internal/delivery/ws"
	"chatrooms/internal/domain"
	"chatrooms/internal/middleware"
	"chatrooms/internal/upload"
)

// Store is the database surface the handlers depend on, implemented by
// *database.Store and by fakes in tests.
type Store interface {
	GetUserByID(ctx context.Context, id int) (domain.UserDB, error)
	GetUserByUsername(ctx context.Context, username string) (domain.UserDB, error)
	UpdateUserAvatar(ctx context.Context, userID, avatarID int) (domain.UserDB, error)

	GetFileByID(ctx context.Context, id int) (domain.FileDB, error)
	CreateFile(ctx context.Context, file domain.File, userID int) (domain.FileDB, error)

	GetRooms(ctx context.Context, page database.Page) ([]domain.Room, error)
	GetRoomByID(ctx context.Context, id int) (domain.Room, error)
	CreateRoom(ctx context.Context, in domain.RoomIn, createdBy int, createdAt time.Time) (domain.Room, error)

	GetMessages(ctx context.Context, page database.Page) ([]domain.Message, error)
	GetMessagesByRoomID(ctx context.Context, roomID int, page database.Page) ([]domain.Message, error)
	GetMessageByID(ctx context.Context, id int) (domain.Message, error)
	CreateMessage(ctx context.Context, in domain.MessageIn, createdBy int, createdAt time.Time) (domain.Message, error)

	GetTodosByCreatedBy(ctx context.Context, createdBy int, page database.Page) ([]domain.Todo, error)
	GetTodoByID(ctx context.Context, id int) (domain.Todo, error)
	CreateTodo(ctx context.Context, in domain.TodoIn, createdBy int, createdAt, modifiedAt time.Time) (domain.Todo, error)
	UpdateTodo(ctx context.Context, id int, in domain.TodoIn, modifiedAt time.Time) (domain.Todo, error)
	DeleteTodo(ctx context.Context, id int) (bool, error)
}

// Handler carries the dependencies of every route.
type Handler struct {
	store    Store
	auth     *auth.Service
	registry *ws.Registry
	files    *upload.Writer
	cfg      *config.Config

	upgrader websocket.Upgrader

	apiLimiter    *middleware.IPRateLimiter
	wsLimiter     *middleware.IPRateLimiter
	strictLimiter *middleware.IPRateLimiter
}

// NewHandler wires the API handlers.
func NewHandler(store Store, authSvc *auth.Service, registry *ws.Registry, files *upload.Writer, cfg *config.Config) *Handler {
	h := &Handler{
		store:         store,
		auth:          authSvc,
		registry:      registry,
		files:         files,
		cfg:           cfg,
		apiLimiter:    middleware.NewIPRateLimiter(cfg.RateLimitAPI, burst(cfg.RateLimitAPI)),
		wsLimiter:     middleware.NewIPRateLimiter(cfg.RateLimitWS, burst(cfg.RateLimitWS)),
		strictLimiter: middleware.NewIPRateLimiter(cfg.RateLimitStrict, burst(cfg.RateLimitStrict)),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Empty origin means a non-browser or same-origin client.
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range cfg.AllowedOrigins {
				if allowed == "*" || origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

// burst doubles the steady rate, matching the usual bucket sizing here.
func burst(r rate.Limit) int {
	b := int(r) * 2
	if b < 1 {
		b = 1
	}
	return b
}

// Routes builds the full route table with per-route rate limiting. The
// strict bucket guards credential guessing on /login, the ws bucket guards
// socket churn, everything else shares the api bucket.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	api := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimitFunc(h.apiLimiter, next)
	}

	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /status", h.handleStatus)
	mux.HandleFunc("POST /login", middleware.RateLimitFunc(h.strictLimiter, h.handleLogin))
	mux.HandleFunc("POST /logout", api(h.handleLogout))

	mux.HandleFunc("GET /users/current", api(h.handleCurrentUser))
	mux.HandleFunc("POST /users/current/avatar", api(h.handleUploadAvatar))
	mux.HandleFunc("POST /users/current/generate_avatar", api(h.handleGenerateAvatar))
	mux.HandleFunc("GET /users/{user_id}", api(h.handleGetUser))

	mux.HandleFunc("GET /files/avatars/{file_id}", api(h.handleGetAvatarFile))

	mux.HandleFunc("GET /rooms", api(h.handleListRooms))
	mux.HandleFunc("POST /rooms", api(h.handleCreateRoom))
	mux.HandleFunc("GET /rooms/{room_id}", h.handleRoomByID)

	mux.HandleFunc("GET /messages", api(h.handleListMessages))
	mux.HandleFunc("POST /messages", api(h.handleCreateMessage))
	mux.HandleFunc("GET /messages/{message_id}", api(h.handleGetMessage))

	mux.HandleFunc("GET /todos", api(h.handleListTodos))
	mux.HandleFunc("POST /todos", api(h.handleCreateTodo))
	mux.HandleFunc("GET /todos/{todo_id}", api(h.handleGetTodo))
	mux.HandleFunc("PUT /todos/{todo_id}", api(h.handleUpdateTodo))
	mux.HandleFunc("DELETE /todos/{todo_id}", api(h.handleDeleteTodo))

	return mux
}

// handleRoomByID serves both the REST room lookup and the room websocket:
// a websocket handshake on the room URL upgrades, anything else returns the
// room as JSON.
func (h *Handler) handleRoomByID(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		middleware.RateLimitFunc(h.wsLimiter, h.serveRoomSocket)(w, r)
		return
	}
	middleware.RateLimitFunc(h.apiLimiter, h.handleGetRoom)(w, r)
}

// currentUser resolves and authorizes the caller. On failure it writes the
// error response and reports false.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (domain.UserDB, bool) {
	token, err := auth.BearerToken(r)
	if err != nil {
		unauthorized(w)
		return domain.UserDB{}, false
	}
	user, err := h.auth.ActiveUser(r.Context(), token)
	switch {
	case err == nil:
		return user, true
	case err == auth.ErrInactiveUser:
		writeDetail(w, http.StatusBadRequest, "Inactive user")
	default:
		unauthorized(w)
	}
	return domain.UserDB{}, false
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}
