// Package settings implements the singleton admin settings store with
// validation and default fallback.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
	"github.com/globalchat/globalchat/internal/validation"
)

// ErrInvalidInterval indicates a Set outside the allowed range. The
// previously stored value is left intact.
var ErrInvalidInterval = errors.New("invalid auto-refresh interval")

// Service provides validated access to the admin settings.
type Service struct {
	store  storage.SettingsStorage
	logger *slog.Logger
}

// NewService creates a new settings service.
func NewService(store storage.SettingsStorage, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Get returns the stored settings, falling back to the defaults when
// nothing is stored or the record is unreadable. A stored value outside
// the valid range is treated as corrupt.
func (s *Service) Get(ctx context.Context) models.AdminSettings {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrSettingsNotFound) {
			s.logger.WarnContext(ctx, "failed to read settings, using defaults",
				slog.Any("error", err))
		}
		return models.DefaultAdminSettings()
	}

	if err := validation.ValidateRefreshInterval(stored.AutoRefreshInterval); err != nil {
		s.logger.WarnContext(ctx, "stored settings out of range, using defaults",
			slog.Int("auto_refresh_interval", stored.AutoRefreshInterval))
		return models.DefaultAdminSettings()
	}

	return *stored
}

// Set validates and persists a new auto-refresh interval. On a rejected
// value nothing is written.
func (s *Service) Set(ctx context.Context, interval int) error {
	if err := validation.ValidateRefreshInterval(interval); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, err)
	}

	if err := s.store.SaveSettings(ctx, &models.AdminSettings{AutoRefreshInterval: interval}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.InfoContext(ctx, "auto-refresh interval updated", slog.Int("seconds", interval))

	return nil
}
