package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	ctx := context.Background()
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		require.NoError(t, s.Close())
	}

	return s, cleanup
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tests := []struct {
		wantError error
		user      *models.User
		name      string
	}{
		{
			name: "create new user successfully",
			user: &models.User{
				Username:     "alice",
				Name:         "Alice Example",
				Email:        "alice@example.com",
				PasswordHash: "hash123",
				Status:       models.StatusActive,
				CreatedAt:    time.Now(),
				LastLogin:    nil,
			},
			wantError: nil,
		},
		{
			name: "create user with last login",
			user: &models.User{
				Username:     "bob",
				Name:         "Bob Example",
				Email:        "bob@example.com",
				PasswordHash: "hash456",
				Status:       models.StatusActive,
				CreatedAt:    time.Now(),
				LastLogin:    timePtr(time.Now()),
			},
			wantError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)

				// Verify user was created
				retrieved, err := s.GetUser(ctx, tt.user.Username)
				require.NoError(t, err)
				assert.Equal(t, tt.user.Username, retrieved.Username)
				assert.Equal(t, tt.user.Name, retrieved.Name)
				assert.Equal(t, tt.user.Email, retrieved.Email)
				assert.Equal(t, tt.user.PasswordHash, retrieved.PasswordHash)
				assert.Equal(t, tt.user.Status, retrieved.Status)
			}
		})
	}
}

func TestUserStorage_CreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user1 := &models.User{
		Username:     "duplicate",
		Name:         "First",
		Email:        "first@example.com",
		PasswordHash: "hash1",
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}
	err := s.CreateUser(ctx, user1)
	require.NoError(t, err)

	user2 := &models.User{
		Username:     "duplicate", // Same username
		Name:         "Second",
		Email:        "second@example.com",
		PasswordHash: "hash2",
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}
	err = s.CreateUser(ctx, user2)
	assert.ErrorIs(t, err, storage.ErrUserExists)

	// Directory still contains only the first record
	retrieved, err := s.GetUser(ctx, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, "First", retrieved.Name)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserStorage_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := &models.User{
		Username:     "alice",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	err := s.UpdateStatus(ctx, "alice", models.StatusBanned)
	require.NoError(t, err)

	retrieved, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, retrieved.Status)

	// Unban
	err = s.UpdateStatus(ctx, "alice", models.StatusActive)
	require.NoError(t, err)

	retrieved, err = s.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, retrieved.Status)
}

func TestUserStorage_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.UpdateStatus(ctx, "missing", models.StatusBanned)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := &models.User{
		Username:     "alice",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	loginTime := time.Now()
	err := s.UpdateLastLogin(ctx, "alice", loginTime)
	require.NoError(t, err)

	retrieved, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, retrieved.LastLogin)
	assert.WithinDuration(t, loginTime, *retrieved.LastLogin, time.Second)

	err = s.UpdateLastLogin(ctx, "missing", loginTime)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_DeleteUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := &models.User{
		Username:     "alice",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	err := s.DeleteUser(ctx, "alice")
	require.NoError(t, err)

	_, err = s.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	err = s.DeleteUser(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_ListUsers(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	// Empty directory
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	base := time.Now().Add(-time.Hour)
	for i, username := range []string{"alice", "bob", "carol"} {
		user := &models.User{
			Username:     username,
			Name:         username,
			Email:        username + "@example.com",
			PasswordHash: "hash",
			Status:       models.StatusActive,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateUser(ctx, user))
	}

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)
}
