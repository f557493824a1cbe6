package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates that a user with this username already exists
	ErrUserExists = errors.New("user already exists")

	// ErrSettingsNotFound indicates that no settings record is stored yet
	ErrSettingsNotFound = errors.New("settings not found")
)
