package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/globalchat/globalchat/internal/chat"
	"github.com/globalchat/globalchat/internal/server/middleware"
	"github.com/globalchat/globalchat/internal/settings"
	"github.com/globalchat/globalchat/pkg/api"
)

// ChatHandler serves the message feed and submissions.
type ChatHandler struct {
	logger   *slog.Logger
	chat     *chat.Service
	settings *settings.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *slog.Logger, chatSvc *chat.Service, settingsSvc *settings.Service) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chat:     chatSvc,
		settings: settingsSvc,
	}
}

// Messages handles GET /api/v1/chat/messages: an immediate snapshot of
// the log plus the polling cadence. A failed read degrades to an empty
// feed rather than an error; the condition is logged.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messages, err := h.chat.History(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load chat history", slog.Any("error", err))
		messages = nil
	}

	cfg := h.settings.Get(ctx)

	resp := api.ChatSnapshotResponse{
		Messages:            toAPIMessages(messages),
		Count:               len(messages),
		AutoRefreshInterval: cfg.AutoRefreshInterval,
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}

// Post handles POST /api/v1/chat/messages. The moderation gate runs
// inside the chat service on every call; a ban between two submissions
// blocks the second one regardless of the session's age.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := middleware.SessionFromContext(ctx)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode post request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chat.Post(ctx, sess.Username, req.Content)
	if err != nil {
		if errors.Is(err, chat.ErrPermissionDenied) {
			sendError(w, h.logger, "you are not allowed to post messages", http.StatusForbidden)
			return
		}
		// Write failures surface as errors; the submitter must know.
		h.logger.ErrorContext(ctx, "failed to post message",
			slog.String("username", sess.Username), slog.Any("error", err))
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	// The sender's own poller refreshes right away.
	sess.Bump()

	sendJSON(w, h.logger, api.PostMessageResponse{Message: toAPIMessage(msg)}, http.StatusCreated)
}

// Poll handles GET /api/v1/chat/poll: it parks until the session's
// synchronizer delivers the next snapshot (at latest one interval away)
// and returns it. Disconnecting cancels the wait with no store effect.
func (h *ChatHandler) Poll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := middleware.SessionFromContext(ctx)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := sess.WaitSnapshot(ctx)
	if err != nil {
		// Client went away; nothing to answer.
		return
	}

	resp := api.ChatSnapshotResponse{
		Messages:            toAPIMessages(snap.Messages),
		Count:               len(snap.Messages),
		AutoRefreshInterval: snap.Interval,
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}
