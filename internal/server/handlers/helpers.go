package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/pkg/api"
)

// sendJSON writes a JSON response with the given status.
func sendJSON(w http.ResponseWriter, logger *slog.Logger, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// sendError writes the uniform error payload.
func sendError(w http.ResponseWriter, logger *slog.Logger, message string, status int) {
	sendJSON(w, logger, api.ErrorResponse{Error: message}, status)
}

// toAPIMessage converts a stored message to its wire form.
func toAPIMessage(msg models.Message) api.Message {
	return api.Message{
		MessageID: msg.MessageID,
		UserID:    msg.UserID,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		Role:      msg.Role,
	}
}

// toAPIMessages converts a message slice to wire form.
func toAPIMessages(msgs []models.Message) []api.Message {
	out := make([]api.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, toAPIMessage(msg))
	}
	return out
}

// toAPIUser converts an account view to its wire form.
func toAPIUser(view models.UserView) api.UserView {
	out := api.UserView{
		Username:  view.Username,
		Name:      view.Name,
		Email:     view.Email,
		Status:    string(view.Status),
		CreatedAt: view.CreatedAt.Format(time.RFC3339),
	}
	if view.LastLogin != nil {
		out.LastLogin = view.LastLogin.Format(time.RFC3339)
	}
	return out
}
