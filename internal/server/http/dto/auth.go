package dto

import "time"

// CredentialsRequest describes username/password payload for register and login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateRequest carries optional replacement fields for a user.
type UserUpdateRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse wraps human-readable confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse wraps failure details.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WhoamiResponse reports the authenticated caller's name.
type WhoamiResponse struct {
	Username string `json:"username"`
}
