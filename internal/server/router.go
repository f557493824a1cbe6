// Package server assembles the HTTP surface consumed by the UI layer.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/globalchat/globalchat/internal/chat"
	"github.com/globalchat/globalchat/internal/directory"
	"github.com/globalchat/globalchat/internal/server/handlers"
	"github.com/globalchat/globalchat/internal/server/middleware"
	"github.com/globalchat/globalchat/internal/session"
	"github.com/globalchat/globalchat/internal/settings"
)

// Options collects everything the router needs.
type Options struct {
	Logger    *slog.Logger
	Directory *directory.Service
	Chat      *chat.Service
	Settings  *settings.Service
	Sessions  *session.Manager
	Admin     handlers.AdminCredentials
	Version   string

	// LoginRate / LoginWindow bound credential attempts per client IP.
	LoginRate   int
	LoginWindow time.Duration
}

// New builds the complete handler tree: public auth routes behind a
// rate limiter, session routes behind JWT auth, admin routes behind the
// admin check. The long-poll route is excluded from request logging.
func New(opts Options) (http.Handler, *middleware.RateLimiter) {
	logger := opts.Logger

	authHandler := handlers.NewAuthHandler(logger, opts.Directory, opts.Sessions, opts.Admin)
	chatHandler := handlers.NewChatHandler(logger, opts.Chat, opts.Settings)
	adminHandler := handlers.NewAdminHandler(logger, opts.Directory, opts.Chat, opts.Settings, opts.Sessions)
	healthHandler := handlers.NewHealthHandler(logger, opts.Version)

	authed := middleware.Auth(logger, opts.Sessions)
	adminOnly := middleware.RequireAdmin(logger)

	limiter := middleware.NewRateLimiter(opts.LoginRate, opts.LoginWindow, logger)
	limited := limiter.Middleware()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	mux.Handle("POST /api/v1/auth/register", limited(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", limited(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/logout", authed(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("GET /api/v1/chat/messages", authed(http.HandlerFunc(chatHandler.Messages)))
	mux.Handle("POST /api/v1/chat/messages", authed(http.HandlerFunc(chatHandler.Post)))
	mux.Handle("GET /api/v1/chat/poll", authed(http.HandlerFunc(chatHandler.Poll)))

	mux.Handle("GET /api/v1/admin/users", authed(adminOnly(http.HandlerFunc(adminHandler.ListUsers))))
	mux.Handle("POST /api/v1/admin/users/{username}/status", authed(adminOnly(http.HandlerFunc(adminHandler.SetStatus))))
	mux.Handle("DELETE /api/v1/admin/users/{username}", authed(adminOnly(http.HandlerFunc(adminHandler.DeleteUser))))
	mux.Handle("POST /api/v1/admin/chat/clear", authed(adminOnly(http.HandlerFunc(adminHandler.ClearChat))))
	mux.Handle("GET /api/v1/admin/settings", authed(adminOnly(http.HandlerFunc(adminHandler.GetSettings))))
	mux.Handle("PUT /api/v1/admin/settings", authed(adminOnly(http.HandlerFunc(adminHandler.UpdateSettings))))
	mux.Handle("GET /api/v1/admin/stats", authed(adminOnly(http.HandlerFunc(adminHandler.Stats))))

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/chat/poll", "/api/v1/health"})(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler, limiter
}
