// Package chat implements the shared message log service: gated append,
// snapshot reads, bulk clear and change notification for pollers.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
	"github.com/globalchat/globalchat/internal/validation"
)

// ErrPermissionDenied indicates that the moderation gate refused the
// submission: the poster is banned or no longer exists.
var ErrPermissionDenied = errors.New("permission denied")

// Gate authorizes message submission. It is consulted on every Post, so
// a status change between two submissions blocks the second one.
type Gate interface {
	CanPost(ctx context.Context, username string) bool
}

// Service provides the message log operations.
type Service struct {
	messages storage.MessageStorage
	gate     Gate
	notifier *Notifier
	logger   *slog.Logger
}

// NewService creates a new chat service.
func NewService(messages storage.MessageStorage, gate Gate, logger *slog.Logger) *Service {
	return &Service{
		messages: messages,
		gate:     gate,
		notifier: NewNotifier(),
		logger:   logger,
	}
}

// Post validates content, re-checks the moderation gate and appends the
// message to the log. Write failures are surfaced to the caller, never
// swallowed.
func (s *Service) Post(ctx context.Context, username, content string) (models.Message, error) {
	if err := validation.ValidateContent(content); err != nil {
		return models.Message{}, err
	}

	if !s.gate.CanPost(ctx, username) {
		s.logger.WarnContext(ctx, "message rejected by moderation gate",
			slog.String("username", username))
		return models.Message{}, ErrPermissionDenied
	}

	msg := models.Message{
		MessageID: uuid.New().String(),
		UserID:    username,
		Content:   content,
		Timestamp: time.Now().Format("15:04:05"),
		Role:      models.RoleUser,
	}

	if err := s.messages.AppendMessage(ctx, &msg); err != nil {
		return models.Message{}, fmt.Errorf("failed to append message: %w", err)
	}

	s.notifier.Broadcast()

	return msg, nil
}

// History returns all retained messages, oldest first.
func (s *Service) History(ctx context.Context) ([]models.Message, error) {
	return s.messages.LoadMessages(ctx)
}

// Count returns the number of retained messages.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.messages.CountMessages(ctx)
}

// Clear empties the log. Administrator-only by convention of the caller;
// the log itself knows nothing about roles.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.messages.ClearMessages(ctx); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	s.logger.InfoContext(ctx, "message log cleared")
	s.notifier.Broadcast()

	return nil
}

// Subscribe registers for change notifications. The returned channel
// receives a signal after every append or clear; cancel releases the
// subscription.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	return s.notifier.Subscribe()
}
