package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// User models an authenticated actor in the system. PasswordHash is never
// serialized to JSON.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
