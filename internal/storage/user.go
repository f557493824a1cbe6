package storage

import (
	"context"
	"time"

	"github.com/globalchat/globalchat/internal/models"
)

// UserStorage defines the interface for account persistence.
type UserStorage interface {
	// CreateUser creates a new account record.
	// Returns ErrUserExists if the username is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves an account by username.
	// Returns ErrUserNotFound if the account doesn't exist.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// ListUsers retrieves all accounts ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateStatus sets the moderation status of an account.
	// Returns ErrUserNotFound if the account doesn't exist.
	UpdateStatus(ctx context.Context, username string, status models.Status) error

	// UpdateLastLogin records the time of a successful authentication.
	// Returns ErrUserNotFound if the account doesn't exist.
	UpdateLastLogin(ctx context.Context, username string, lastLogin time.Time) error

	// DeleteUser removes an account.
	// Returns ErrUserNotFound if the account doesn't exist.
	DeleteUser(ctx context.Context, username string) error

	// CountUsers returns the number of accounts.
	CountUsers(ctx context.Context) (int, error)
}
