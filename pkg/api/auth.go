// Package api defines the JSON contract between the core server and the
// UI layer that consumes it.
package api

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload, for directory users and for the
// configured administrator alike.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login: the session token
// and the authenticated identity. Registration signs the new user in.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
