package models

import "time"

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what /login returns. Token is present on deployments that
// hand out bearer tokens; cookie-session deployments leave it empty and set
// a session cookie instead. Clients must cope with either.
type AuthResponse struct {
	Token string `json:"token,omitempty"`
	User  User   `json:"user"`
}
