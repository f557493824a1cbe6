// Package directory implements the account directory: registration,
// authentication, moderation status and the gate that message submission
// is checked against.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
	"github.com/globalchat/globalchat/internal/validation"
)

var (
	// ErrInvalidCredentials indicates an unknown username or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserBanned indicates that the credentials were valid but the
	// account is banned. Callers must distinguish this from
	// ErrInvalidCredentials: the identity is confirmed, access is not.
	ErrUserBanned = errors.New("account is banned")
)

// Service provides account operations over a UserStorage.
type Service struct {
	users      storage.UserStorage
	logger     *slog.Logger
	bcryptCost int
}

// NewService creates a new directory service. bcryptCost <= 0 selects
// the bcrypt default.
func NewService(users storage.UserStorage, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new active account. The password is stored only as
// a bcrypt hash. Returns storage.ErrUserExists if the username is taken.
func (s *Service) Register(ctx context.Context, username, name, email, password string) (models.UserView, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return models.UserView{}, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.UserView{}, err
	}
	if name == "" {
		return models.UserView{}, fmt.Errorf("name cannot be empty")
	}
	if email == "" {
		return models.UserView{}, fmt.Errorf("email cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.UserView{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Status:       models.StatusActive,
		CreatedAt:    now,
		LastLogin:    &now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return models.UserView{}, err
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("username", username))

	return user.View(), nil
}

// Authenticate verifies the supplied credentials. A wrong password or an
// unknown username returns ErrInvalidCredentials; valid credentials for
// a banned account return ErrUserBanned. On success last_login is
// updated and the account view returned.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.UserView, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.UserView{}, ErrInvalidCredentials
		}
		return models.UserView{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.UserView{}, ErrInvalidCredentials
	}

	if user.Status == models.StatusBanned {
		return models.UserView{}, ErrUserBanned
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, username, now); err != nil {
		// The login itself succeeded; don't fail it over bookkeeping.
		s.logger.WarnContext(ctx, "failed to update last login",
			slog.String("username", username), slog.Any("error", err))
	} else {
		user.LastLogin = &now
	}

	s.logger.InfoContext(ctx, "user authenticated", slog.String("username", username))

	return user.View(), nil
}

// CanPost reports whether username is currently allowed to post. Reads
// the directory on every call so a ban takes effect on the very next
// submission, regardless of what the client's session believes.
func (s *Service) CanPost(ctx context.Context, username string) bool {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			s.logger.ErrorContext(ctx, "moderation lookup failed",
				slog.String("username", username), slog.Any("error", err))
		}
		return false
	}
	return user.Status == models.StatusActive
}

// SetStatus sets an account's moderation status. Administrator-only by
// convention of the caller.
func (s *Service) SetStatus(ctx context.Context, username string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	if err := s.users.UpdateStatus(ctx, username, status); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user status changed",
		slog.String("username", username), slog.String("status", string(status)))

	return nil
}

// Delete removes an account. Administrator-only by convention of the
// caller.
func (s *Service) Delete(ctx context.Context, username string) error {
	if err := s.users.DeleteUser(ctx, username); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted", slog.String("username", username))

	return nil
}

// List returns all accounts as views, without credential material.
func (s *Service) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, user.View())
	}

	return views, nil
}

// Count returns the number of accounts.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.users.CountUsers(ctx)
}
