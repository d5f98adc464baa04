package models

import "errors"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

var (
	// ErrUnauthorized covers a missing, malformed or unknown bearer token
	// as well as rejected login credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAdmin is returned when an admin-only operation is attempted
	// without an admin identity.
	ErrNotAdmin = errors.New("admin privileges required")

	ErrNotFound = errors.New("user not found")

	// ErrForbidden is returned when deleting an admin user.
	ErrForbidden = errors.New("removing admin is forbidden")

	ErrConflict = errors.New("user with the same id already exists")
)
