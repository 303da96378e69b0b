package dto

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResponse pairs the authenticated user with their token.
type LoginResponse struct {
	User domain.User  `json:"user"`
	Auth AuthResponse `json:"auth"`
}
