package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest carries the self-service registration form.
type RegisterRequest struct {
	Role            string   `json:"role" validate:"required"`
	FirstName       string   `json:"first_name" validate:"required"`
	LastName        string   `json:"last_name" validate:"required"`
	Username        string   `json:"username" validate:"required"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required"`
	StudentNumber   string   `json:"student_number"`
	PrimaryStreamID string   `json:"primary_stream_id"`
	Streams         []string `json:"streams"`
}

// LoginRequest holds credentials for authenticating a user under a role.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID              string  `json:"id"`
	FirstName       string  `json:"first_name,omitempty"`
	LastName        string  `json:"last_name,omitempty"`
	Username        string  `json:"username"`
	Email           *string `json:"email,omitempty"`
	Role            Role    `json:"role"`
	PrimaryStreamID *string `json:"primary_stream_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string `json:"id"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
