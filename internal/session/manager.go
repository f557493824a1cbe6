// Package session implements the ephemeral per-connection state: an
// in-memory registry of authenticated sessions, signed session tokens,
// and the per-session polling synchronizer lifecycle. Nothing here is
// persisted; a restart forgets all sessions.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/globalchat/globalchat/internal/chat"
	"github.com/globalchat/globalchat/internal/poll"
	"github.com/globalchat/globalchat/internal/settings"
)

var (
	// ErrSessionNotFound indicates an unknown or already closed session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken indicates a token that failed validation.
	ErrInvalidToken = errors.New("invalid session token")
)

// Session is one authenticated connection. It owns a polling
// synchronizer whose goroutine lives until the session is closed.
type Session struct {
	ID        string
	Username  string
	IsAdmin   bool
	CreatedAt time.Time

	poller      *poll.Synchronizer
	cancel      context.CancelFunc
	unsubscribe func()
}

// Bump forces the session's synchronizer to refresh immediately. Called
// after the session's own append so the sender sees their message
// without waiting for the next tick.
func (s *Session) Bump() {
	s.poller.Bump()
}

// WaitSnapshot blocks until the synchronizer delivers the next snapshot
// or ctx is done.
func (s *Session) WaitSnapshot(ctx context.Context) (poll.Snapshot, error) {
	select {
	case snap := <-s.poller.Snapshots():
		return snap, nil
	case <-ctx.Done():
		return poll.Snapshot{}, ctx.Err()
	}
}

// PollState exposes the synchronizer state, for observability.
func (s *Session) PollState() poll.State {
	return s.poller.State()
}

// Manager is the in-memory session registry.
type Manager struct {
	jwtConfig JWTConfig
	chat      *chat.Service
	settings  *settings.Service
	logger    *slog.Logger

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Sessions started from it are
// all terminated by Shutdown.
func NewManager(jwtConfig JWTConfig, chatSvc *chat.Service, settingsSvc *settings.Service, logger *slog.Logger) *Manager {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jwtConfig:  jwtConfig,
		chat:       chatSvc,
		settings:   settingsSvc,
		logger:     logger,
		baseCtx:    baseCtx,
		cancelBase: cancel,
		sessions:   make(map[string]*Session),
	}
}

// Open creates a session for an authenticated principal, starts its
// polling synchronizer and returns the session with a signed token.
func (m *Manager) Open(username string, isAdmin bool) (*Session, string, int64, error) {
	sessionID := uuid.New().String()

	token, expiresIn, err := generateToken(m.jwtConfig, sessionID, username, isAdmin)
	if err != nil {
		return nil, "", 0, err
	}

	notify, unsubscribe := m.chat.Subscribe()
	poller := poll.New(m.chat, m.settings, notify, m.logger)

	ctx, cancel := context.WithCancel(m.baseCtx)

	sess := &Session{
		ID:          sessionID,
		Username:    username,
		IsAdmin:     isAdmin,
		CreatedAt:   time.Now(),
		poller:      poller,
		cancel:      cancel,
		unsubscribe: unsubscribe,
	}

	m.mu.Lock()
	m.sessions[sessionID] = sess
	m.mu.Unlock()

	go poller.Run(ctx)

	m.logger.Info("session opened",
		slog.String("session_id", sessionID),
		slog.String("username", username),
		slog.Bool("is_admin", isAdmin))

	return sess, token, expiresIn, nil
}

// Resolve validates a token and returns the live session it names.
// A valid token for a closed session returns ErrSessionNotFound, so
// logout revokes the token immediately.
func (m *Manager) Resolve(token string) (*Session, error) {
	claims, err := parseToken(m.jwtConfig, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	m.mu.RLock()
	sess, ok := m.sessions[claims.SessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// Close terminates a session: its synchronizer is cancelled and its
// notification subscription released. No store state is touched.
func (m *Manager) Close(sessionID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.cancel()
	sess.unsubscribe()

	m.logger.Info("session closed",
		slog.String("session_id", sessionID),
		slog.String("username", sess.Username))

	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown terminates every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.cancelBase()
	for _, sess := range sessions {
		sess.unsubscribe()
	}
}
