package auth

import "github.com/arnarg/webshop-backend/internal/users"

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest carries the credentials for token issuance.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by both register and login.
type TokenResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
