package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/globalchat/globalchat/internal/chat"
	"github.com/globalchat/globalchat/internal/directory"
	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/session"
	"github.com/globalchat/globalchat/internal/settings"
	"github.com/globalchat/globalchat/internal/storage"
	"github.com/globalchat/globalchat/pkg/api"
)

// AdminHandler serves the administrative surface: user management, chat
// management and settings. All routes behind it require an admin
// session (enforced by middleware).
type AdminHandler struct {
	logger    *slog.Logger
	directory *directory.Service
	chat      *chat.Service
	settings  *settings.Service
	sessions  *session.Manager
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(logger *slog.Logger, dir *directory.Service, chatSvc *chat.Service, settingsSvc *settings.Service, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{
		logger:    logger,
		directory: dir,
		chat:      chatSvc,
		settings:  settingsSvc,
		sessions:  sessions,
	}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.directory.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.UserListResponse{Users: make([]api.UserView, 0, len(views))}
	for _, view := range views {
		resp.Users = append(resp.Users, toAPIUser(view))
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}

// SetStatus handles POST /api/v1/admin/users/{username}/status with a
// body of {"status": "active"|"banned"}.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := r.PathValue("username")
	if username == "" {
		sendError(w, h.logger, "username is required", http.StatusBadRequest)
		return
	}

	var req api.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	status := models.Status(req.Status)
	if !status.Valid() {
		sendError(w, h.logger, "status must be \"active\" or \"banned\"", http.StatusBadRequest)
		return
	}

	if err := h.directory.SetStatus(ctx, username, status); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(w, h.logger, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to set status", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/v1/admin/users/{username}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := r.PathValue("username")
	if username == "" {
		sendError(w, h.logger, "username is required", http.StatusBadRequest)
		return
	}

	if err := h.directory.Delete(ctx, username); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(w, h.logger, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearChat handles POST /api/v1/admin/chat/clear.
func (h *AdminHandler) ClearChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.chat.Clear(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to clear chat", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /api/v1/admin/settings.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg := h.settings.Get(r.Context())
	sendJSON(w, h.logger, api.SettingsPayload{AutoRefreshInterval: cfg.AutoRefreshInterval}, http.StatusOK)
}

// UpdateSettings handles PUT /api/v1/admin/settings. A rejected value
// leaves the stored setting intact.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.settings.Set(ctx, req.AutoRefreshInterval); err != nil {
		if errors.Is(err, settings.ErrInvalidInterval) {
			sendError(w, h.logger, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update settings", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, api.SettingsPayload{AutoRefreshInterval: req.AutoRefreshInterval}, http.StatusOK)
}

// Stats handles GET /api/v1/admin/stats, the admin panel's system
// information block.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messageCount, err := h.chat.Count(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count messages", slog.Any("error", err))
		messageCount = 0
	}

	userCount, err := h.directory.Count(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count users", slog.Any("error", err))
		userCount = 0
	}

	resp := api.StatsResponse{
		TotalMessages: messageCount,
		TotalUsers:    userCount,
		LiveSessions:  h.sessions.Count(),
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}
