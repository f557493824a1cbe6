package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/globalchat/globalchat/internal/chat"
	"github.com/globalchat/globalchat/internal/config"
	"github.com/globalchat/globalchat/internal/directory"
	"github.com/globalchat/globalchat/internal/server"
	"github.com/globalchat/globalchat/internal/server/handlers"
	"github.com/globalchat/globalchat/internal/session"
	"github.com/globalchat/globalchat/internal/settings"
	"github.com/globalchat/globalchat/internal/storage/boltdb"
	"github.com/globalchat/globalchat/internal/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	userStore, err := sqlite.New(ctx, cfg.UsersDBPath())
	if err != nil {
		return fmt.Errorf("failed to open user storage: %w", err)
	}
	defer userStore.Close()

	chatStore, err := boltdb.New(ctx, cfg.ChatDBPath())
	if err != nil {
		return fmt.Errorf("failed to open chat storage: %w", err)
	}
	defer chatStore.Close()

	dirSvc := directory.NewService(userStore, logger, cfg.BcryptCost)
	chatSvc := chat.NewService(chatStore, dirSvc, logger)
	settingsSvc := settings.NewService(chatStore, logger)

	sessions := session.NewManager(session.JWTConfig{
		Secret:         []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
	}, chatSvc, settingsSvc, logger)
	defer sessions.Shutdown()

	handler, limiter := server.New(server.Options{
		Logger:    logger,
		Directory: dirSvc,
		Chat:      chatSvc,
		Settings:  settingsSvc,
		Sessions:  sessions,
		Admin: handlers.AdminCredentials{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
		},
		Version:     Version,
		LoginRate:   cfg.LoginRate,
		LoginWindow: cfg.LoginWindow,
	})
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("Global Chat Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
