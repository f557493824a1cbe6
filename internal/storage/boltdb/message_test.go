package boltdb

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/storage"
)

func createTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "chat_test.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		require.NoError(t, store.Close())
	}

	return store, cleanup
}

func testMessage(content string) *models.Message {
	return &models.Message{
		MessageID: uuid.New().String(),
		UserID:    "testuser",
		Content:   content,
		Timestamp: "12:00:00",
		Role:      models.RoleUser,
	}
}

func TestMessageStorage_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Empty log
	messages, err := store.LoadMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	msg := testMessage("hello")
	err = store.AppendMessage(ctx, msg)
	require.NoError(t, err)

	messages, err = store.LoadMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, msg.MessageID, messages[0].MessageID)
	assert.Equal(t, "testuser", messages[0].UserID)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, models.RoleUser, messages[0].Role)
}

func TestMessageStorage_OrderedOldestFirst(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for i := 0; i < 10; i++ {
		require.NoError(t, store.AppendMessage(ctx, testMessage(fmt.Sprintf("m%d", i))))
	}

	messages, err := store.LoadMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 10)
	for i, msg := range messages {
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.Content)
	}
}

func TestMessageStorage_EvictsOldestPastCap(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Append limit+1 distinct messages
	for i := 1; i <= storage.MessageLimit+1; i++ {
		require.NoError(t, store.AppendMessage(ctx, testMessage(fmt.Sprintf("m%d", i))))
	}

	messages, err := store.LoadMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, storage.MessageLimit)

	// m1 evicted; m2..m1001 retained in order
	assert.Equal(t, "m2", messages[0].Content)
	assert.Equal(t, fmt.Sprintf("m%d", storage.MessageLimit+1), messages[len(messages)-1].Content)
	for i, msg := range messages {
		assert.Equal(t, fmt.Sprintf("m%d", i+2), msg.Content)
	}

	count, err := store.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.MessageLimit, count)
}

func TestMessageStorage_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	errCh := make(chan error, writers*perWriter)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				msg := &models.Message{
					MessageID: uuid.New().String(),
					UserID:    fmt.Sprintf("writer%d", w),
					Content:   fmt.Sprintf("w%d-m%d", w, i),
					Timestamp: "12:00:00",
					Role:      models.RoleUser,
				}
				if err := store.AppendMessage(ctx, msg); err != nil {
					errCh <- err
				}
			}
		}(w)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// No append was lost and every message id is distinct
	messages, err := store.LoadMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, writers*perWriter)

	seen := make(map[string]bool, len(messages))
	for _, msg := range messages {
		assert.False(t, seen[msg.MessageID], "duplicate message id %s", msg.MessageID)
		seen[msg.MessageID] = true
	}
}

func TestMessageStorage_ClearMessages(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendMessage(ctx, testMessage(fmt.Sprintf("m%d", i))))
	}

	err := store.ClearMessages(ctx)
	require.NoError(t, err)

	messages, err := store.LoadMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	count, err := store.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Log remains usable after a clear
	require.NoError(t, store.AppendMessage(ctx, testMessage("after clear")))
	messages, err = store.LoadMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "after clear", messages[0].Content)
}
