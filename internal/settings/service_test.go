package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
	"github.com/globalchat/globalchat/internal/storage/boltdb"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "settings_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger)
}

func TestService_Get_Default(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	cfg := svc.Get(ctx)
	assert.Equal(t, models.DefaultRefreshInterval, cfg.AutoRefreshInterval)
}

func TestService_SetAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Set(ctx, 5))
	assert.Equal(t, 5, svc.Get(ctx).AutoRefreshInterval)

	require.NoError(t, svc.Set(ctx, 1))
	assert.Equal(t, 1, svc.Get(ctx).AutoRefreshInterval)

	require.NoError(t, svc.Set(ctx, 10))
	assert.Equal(t, 10, svc.Get(ctx).AutoRefreshInterval)
}

func TestService_Set_OutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	assert.ErrorIs(t, svc.Set(ctx, 0), ErrInvalidInterval)
	assert.ErrorIs(t, svc.Set(ctx, 11), ErrInvalidInterval)

	// Never set: still the default
	assert.Equal(t, models.DefaultRefreshInterval, svc.Get(ctx).AutoRefreshInterval)

	// Prior valid value survives a rejected Set
	require.NoError(t, svc.Set(ctx, 7))
	assert.ErrorIs(t, svc.Set(ctx, 0), ErrInvalidInterval)
	assert.ErrorIs(t, svc.Set(ctx, 11), ErrInvalidInterval)
	assert.Equal(t, 7, svc.Get(ctx).AutoRefreshInterval)
}

// failingStore simulates an unreadable settings record.
type failingStore struct{}

func (failingStore) GetSettings(ctx context.Context) (*models.AdminSettings, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) SaveSettings(ctx context.Context, settings *models.AdminSettings) error {
	return errors.New("disk on fire")
}

var _ storage.SettingsStorage = failingStore{}

func TestService_Get_FallsBackOnReadError(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(failingStore{}, logger)

	cfg := svc.Get(ctx)
	assert.Equal(t, models.DefaultRefreshInterval, cfg.AutoRefreshInterval)
}

func TestService_Set_SurfacesWriteError(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(failingStore{}, logger)

	err := svc.Set(ctx, 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInterval)
}
