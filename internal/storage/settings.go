package storage

import (
	"context"

	"github.com/globalchat/globalchat/internal/models"
)

// SettingsStorage defines the interface for the singleton admin settings
// record.
type SettingsStorage interface {
	// GetSettings retrieves the stored settings.
	// Returns ErrSettingsNotFound if nothing has been stored yet.
	GetSettings(ctx context.Context) (*models.AdminSettings, error)

	// SaveSettings stores the settings, replacing any previous value.
	SaveSettings(ctx context.Context, settings *models.AdminSettings) error
}
