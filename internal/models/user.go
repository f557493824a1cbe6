package models

import "time"

// Status is the moderation state of an account.
type Status string

const (
	// StatusActive means the account may authenticate and post.
	StatusActive Status = "active"
	// StatusBanned means the account is refused at login and at the
	// moderation gate. The record itself is kept.
	StatusBanned Status = "banned"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusBanned
}

// User is a directory account. Username is the primary key and never
// changes for the lifetime of the record. PasswordHash is a bcrypt hash;
// the plaintext password is never stored or logged.
type User struct {
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// View returns the externally visible projection of the account,
// without the password hash.
func (u *User) View() UserView {
	return UserView{
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// UserView is the account projection handed to callers (listings,
// session context). It deliberately has no credential material.
type UserView struct {
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
