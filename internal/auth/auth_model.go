package auth

import "github.com/ArjunMehta-11/stumps/internal/user"

// RegisterRequest defines the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=7,max=15"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful register/login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	User        user.User `json:"user"`
}
