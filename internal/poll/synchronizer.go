// Package poll implements the per-session polling synchronizer: a timer
// driven state machine that re-fetches the message log and the current
// auto-refresh interval, and delivers snapshots to the session.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/globalchat/globalchat/internal/models"
)

// State is the synchronizer's position in its cycle.
type State int

const (
	// StateIdle is the state before Run and after shutdown.
	StateIdle State = iota
	// StateWaiting means the synchronizer is waiting for the interval
	// to elapse or for a change notification.
	StateWaiting
	// StateRefreshing means a re-fetch is in progress.
	StateRefreshing
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Snapshot is one delivered view of the log.
type Snapshot struct {
	Messages []models.Message
	Interval int
	TakenAt  time.Time
}

// MessageSource supplies the log content for a refresh.
type MessageSource interface {
	History(ctx context.Context) ([]models.Message, error)
}

// IntervalSource supplies the current auto-refresh interval. It is
// consulted on every cycle, so an administrator's change takes effect
// for a running session within one interval window.
type IntervalSource interface {
	Get(ctx context.Context) models.AdminSettings
}

// Synchronizer drives periodic re-fetches for one session. The wait is a
// scheduled timer wake-up inside the session's own goroutine; it never
// blocks any other session. Cancel the Run context to stop it with no
// residual effect on the stores.
type Synchronizer struct {
	messages  MessageSource
	intervals IntervalSource
	notify    <-chan struct{}
	logger    *slog.Logger

	bumpC chan struct{}
	snapC chan Snapshot

	mu       sync.Mutex
	state    State
	lastPoll time.Time
}

// New creates a synchronizer. notify may be nil; then only the timer
// triggers refreshes.
func New(messages MessageSource, intervals IntervalSource, notify <-chan struct{}, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		messages:  messages,
		intervals: intervals,
		notify:    notify,
		logger:    logger,
		bumpC:     make(chan struct{}, 1),
		snapC:     make(chan Snapshot, 1),
		state:     StateIdle,
	}
}

// Snapshots returns the delivery channel. Only the latest undelivered
// snapshot is kept; a slow consumer sees the freshest state, not a
// backlog.
func (s *Synchronizer) Snapshots() <-chan Snapshot {
	return s.snapC
}

// Bump forces an immediate refresh, used after the session's own append
// so the sender sees their message without waiting for the next tick.
func (s *Synchronizer) Bump() {
	select {
	case s.bumpC <- struct{}{}:
	default:
	}
}

// State returns the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastPoll returns the time of the last completed refresh.
func (s *Synchronizer) LastPoll() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPoll
}

// Run executes the polling loop until ctx is cancelled. An initial
// refresh happens immediately on session start.
func (s *Synchronizer) Run(ctx context.Context) {
	defer s.setState(StateIdle)

	// Session start: deliver the first snapshot right away.
	s.refresh(ctx)

	timer := time.NewTimer(s.currentInterval(ctx))
	defer timer.Stop()

	for {
		s.setState(StateWaiting)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.refresh(ctx)
		case <-s.notifyChan():
			s.refresh(ctx)
		case <-s.bumpC:
			s.refresh(ctx)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.currentInterval(ctx))
	}
}

// notifyChan returns the notification channel, or a nil channel (which
// blocks forever in select) when no subscription was given.
func (s *Synchronizer) notifyChan() <-chan struct{} {
	return s.notify
}

// currentInterval re-reads the configured interval.
func (s *Synchronizer) currentInterval(ctx context.Context) time.Duration {
	return time.Duration(s.intervals.Get(ctx).AutoRefreshInterval) * time.Second
}

// refresh fetches the log and delivers a snapshot, replacing any
// undelivered one.
func (s *Synchronizer) refresh(ctx context.Context) {
	s.setState(StateRefreshing)

	settings := s.intervals.Get(ctx)

	messages, err := s.messages.History(ctx)
	if err != nil {
		// Degrade to an empty feed for this cycle; the next refresh
		// retries.
		s.logger.WarnContext(ctx, "failed to load messages for refresh", slog.Any("error", err))
		messages = nil
	}

	snap := Snapshot{
		Messages: messages,
		Interval: settings.AutoRefreshInterval,
		TakenAt:  time.Now(),
	}

	// Replace a pending snapshot rather than queueing behind it.
	for {
		select {
		case s.snapC <- snap:
			s.mu.Lock()
			s.lastPoll = snap.TakenAt
			s.mu.Unlock()
			return
		default:
			select {
			case <-s.snapC:
			default:
			}
		}
	}
}

func (s *Synchronizer) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
