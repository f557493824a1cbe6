package poll

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalchat/globalchat/internal/models"
)

type fakeMessages struct {
	mu   sync.Mutex
	msgs []models.Message
}

func (f *fakeMessages) History(ctx context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Message, len(f.msgs))
	copy(out, f.msgs)
	return out, nil
}

func (f *fakeMessages) add(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, models.Message{
		MessageID: content,
		UserID:    "tester",
		Content:   content,
		Role:      models.RoleUser,
	})
}

type fakeIntervals struct {
	mu      sync.Mutex
	seconds int
}

func (f *fakeIntervals) Get(ctx context.Context) models.AdminSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.AdminSettings{AutoRefreshInterval: f.seconds}
}

func (f *fakeIntervals) set(seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seconds = seconds
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitSnapshot(t *testing.T, s *Synchronizer, timeout time.Duration) Snapshot {
	t.Helper()
	select {
	case snap := <-s.Snapshots():
		return snap
	case <-time.After(timeout):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSynchronizer_InitialRefresh(t *testing.T) {
	msgs := &fakeMessages{}
	msgs.add("m1")
	intervals := &fakeIntervals{seconds: 10}

	s := New(msgs, intervals, nil, discardLogger())
	assert.Equal(t, StateIdle, s.State())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Session start delivers a snapshot immediately, well before the
	// 10 second interval.
	snap := waitSnapshot(t, s, time.Second)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "m1", snap.Messages[0].Content)
	assert.Equal(t, 10, snap.Interval)
	assert.False(t, s.LastPoll().IsZero())
}

func TestSynchronizer_BumpRefreshesImmediately(t *testing.T) {
	msgs := &fakeMessages{}
	intervals := &fakeIntervals{seconds: 10}

	s := New(msgs, intervals, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	snap := waitSnapshot(t, s, time.Second)
	assert.Empty(t, snap.Messages)

	// The sender's own append shows up without waiting for the tick.
	msgs.add("mine")
	s.Bump()

	snap = waitSnapshot(t, s, time.Second)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "mine", snap.Messages[0].Content)
}

func TestSynchronizer_NotificationRefreshes(t *testing.T) {
	msgs := &fakeMessages{}
	intervals := &fakeIntervals{seconds: 10}
	notify := make(chan struct{}, 1)

	s := New(msgs, intervals, notify, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitSnapshot(t, s, time.Second)

	msgs.add("theirs")
	notify <- struct{}{}

	snap := waitSnapshot(t, s, time.Second)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "theirs", snap.Messages[0].Content)
}

func TestSynchronizer_TimerRefreshes(t *testing.T) {
	msgs := &fakeMessages{}
	intervals := &fakeIntervals{seconds: 1}

	s := New(msgs, intervals, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitSnapshot(t, s, time.Second)

	msgs.add("tick")

	// No bump, no notification: the timer alone must deliver within
	// one interval (plus slack).
	snap := waitSnapshot(t, s, 3*time.Second)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "tick", snap.Messages[0].Content)
}

func TestSynchronizer_IntervalReRead(t *testing.T) {
	msgs := &fakeMessages{}
	intervals := &fakeIntervals{seconds: 10}

	s := New(msgs, intervals, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	snap := waitSnapshot(t, s, time.Second)
	assert.Equal(t, 10, snap.Interval)

	// An administrator's change is picked up on the next cycle without
	// restarting the session.
	intervals.set(3)
	s.Bump()

	snap = waitSnapshot(t, s, time.Second)
	assert.Equal(t, 3, snap.Interval)
}

func TestSynchronizer_LatestSnapshotWins(t *testing.T) {
	msgs := &fakeMessages{}
	intervals := &fakeIntervals{seconds: 10}

	s := New(msgs, intervals, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Don't consume the initial snapshot; force two more refreshes and
	// check the pending one is the freshest.
	msgs.add("m1")
	s.Bump()
	require.Eventually(t, func() bool {
		msgs.add("m2")
		s.Bump()
		select {
		case snap := <-s.Snapshots():
			return len(snap.Messages) >= 2
		default:
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)
}

func TestSynchronizer_CancelStops(t *testing.T) {
	msgs := &fakeMessages{}
	intervals := &fakeIntervals{seconds: 1}

	s := New(msgs, intervals, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	waitSnapshot(t, s, time.Second)
	cancel()

	require.Eventually(t, func() bool {
		return s.State() == StateIdle
	}, time.Second, 10*time.Millisecond)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "waiting", StateWaiting.String())
	assert.Equal(t, "refreshing", StateRefreshing.String())
}
