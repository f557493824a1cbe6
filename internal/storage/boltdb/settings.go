package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
)

var settingsKey = []byte("admin")

// SaveSettings stores the admin settings, replacing any previous value.
func (s *Storage) SaveSettings(ctx context.Context, settings *models.AdminSettings) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return fmt.Errorf("settings bucket not found")
		}

		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}

		if err := bucket.Put(settingsKey, data); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		return nil
	})
}

// GetSettings retrieves the stored admin settings.
// Returns storage.ErrSettingsNotFound if nothing has been stored yet.
func (s *Storage) GetSettings(ctx context.Context) (*models.AdminSettings, error) {
	var settings *models.AdminSettings

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return fmt.Errorf("settings bucket not found")
		}

		data := bucket.Get(settingsKey)
		if data == nil {
			return storage.ErrSettingsNotFound
		}

		settings = &models.AdminSettings{}
		if err := json.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("failed to unmarshal settings: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return settings, nil
}
