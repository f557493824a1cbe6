package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/globalchat/globalchat/internal/directory"
	"github.com/globalchat/globalchat/internal/server/middleware"
	"github.com/globalchat/globalchat/internal/session"
	"github.com/globalchat/globalchat/internal/storage"
	"github.com/globalchat/globalchat/pkg/api"
)

// AdminCredentials are the configured administrator credentials. The
// administrator is not a directory record; it authenticates against
// configuration, mirroring the admin login tab of the UI.
type AdminCredentials struct {
	Username string
	Password string
}

// match reports whether the supplied credentials are the administrator's,
// in constant time.
func (c AdminCredentials) match(username, password string) bool {
	if c.Username == "" || c.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
	return userOK && passOK
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	logger    *slog.Logger
	directory *directory.Service
	sessions  *session.Manager
	admin     AdminCredentials
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *slog.Logger, dir *directory.Service, sessions *session.Manager, admin AdminCredentials) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		directory: dir,
		sessions:  sessions,
		admin:     admin,
	}
}

// Register handles POST /api/v1/auth/register. A successful signup
// opens a session immediately, like the UI's auto-login after signup.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.directory.Register(ctx, req.Username, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			sendError(w, h.logger, "username already exists", http.StatusConflict)
			return
		}
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	_, token, expiresIn, err := h.sessions.Open(view.Username, false)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open session", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.SessionResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		Username:    view.Username,
	}

	sendJSON(w, h.logger, resp, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login for directory users and the
// configured administrator.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	isAdmin := h.admin.match(req.Username, req.Password)
	if !isAdmin {
		_, err := h.directory.Authenticate(ctx, req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, directory.ErrInvalidCredentials):
				sendError(w, h.logger, "invalid username or password", http.StatusUnauthorized)
			case errors.Is(err, directory.ErrUserBanned):
				sendError(w, h.logger, "your account has been banned, please contact admin", http.StatusForbidden)
			default:
				h.logger.ErrorContext(ctx, "authentication failed", slog.Any("error", err))
				sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
			}
			return
		}
	}

	_, token, expiresIn, err := h.sessions.Open(req.Username, isAdmin)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open session", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.SessionResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		Username:    req.Username,
		IsAdmin:     isAdmin,
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout. The session's synchronizer
// is cancelled; the token stops resolving immediately.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.Close(sess.ID); err != nil {
		sendError(w, h.logger, "session not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
