package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
)

// CreateUser creates a new account record.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, name, email, password_hash, status, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Status,
		user.CreatedAt,
		user.LastLogin,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return storage.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUser retrieves an account by username.
func (s *Storage) GetUser(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, name, email, password_hash, status, created_at, last_login
		FROM users
		WHERE username = ?
	`

	user := &models.User{}
	var lastLogin sql.NullTime

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.CreatedAt,
		&lastLogin,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// ListUsers retrieves all accounts ordered by creation time.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT username, name, email, password_hash, status, created_at, last_login
		FROM users
		ORDER BY created_at, username
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		var lastLogin sql.NullTime

		if err := rows.Scan(
			&user.Username,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Status,
			&user.CreatedAt,
			&lastLogin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		if lastLogin.Valid {
			user.LastLogin = &lastLogin.Time
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// UpdateStatus sets the moderation status of an account.
func (s *Storage) UpdateStatus(ctx context.Context, username string, status models.Status) error {
	query := `UPDATE users SET status = ? WHERE username = ?`

	result, err := s.db.ExecContext(ctx, query, status, username)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin records the time of a successful authentication.
func (s *Storage) UpdateLastLogin(ctx context.Context, username string, lastLogin time.Time) error {
	query := `UPDATE users SET last_login = ? WHERE username = ?`

	result, err := s.db.ExecContext(ctx, query, lastLogin, username)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// DeleteUser removes an account.
func (s *Storage) DeleteUser(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = ?`

	result, err := s.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// CountUsers returns the number of accounts.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
