package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"senha"`
}

// UserResponse identidad de sesión expuesta al cliente.
type UserResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LoginResponse salida con el token de sesión.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenID   string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
	Notices   []Notice     `json:"notices,omitempty"`
}
