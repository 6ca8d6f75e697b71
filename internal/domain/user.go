package domain

import "time"

// User is the public user shape, safe to show to any authenticated caller.
type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	AvatarID  *int      `json:"avatar_id" db:"avatar_id"`
}

// UserFull adds the email; only ever returned to the user themselves.
type UserFull struct {
	User
	Email string `json:"email" db:"email"`
}

// UserDB carries the password digest. The digest never leaves the process.
type UserDB struct {
	UserFull
	Digest string `json:"-" db:"digest"`
}

// UserIn is the shape used to create a user (manage CLI only).
type UserIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
