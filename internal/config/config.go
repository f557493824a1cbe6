// Package config loads application configuration from environment
// variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration.
type Config struct {
	ListenAddr     string
	DataDir        string
	JWTSecret      string
	AccessTokenTTL time.Duration
	AdminUsername  string
	AdminPassword  string
	BcryptCost     int
	LoginRate      int
	LoginWindow    time.Duration
	LogLevel       string
}

// Load builds Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getEnv("CHAT_LISTEN_ADDR", ":8080"),
		DataDir:        getEnv("CHAT_DATA_DIR", "database"),
		JWTSecret:      os.Getenv("CHAT_JWT_SECRET"),
		AccessTokenTTL: getEnvDuration("CHAT_TOKEN_TTL", 24*time.Hour),
		AdminUsername:  os.Getenv("CHAT_ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("CHAT_ADMIN_PASSWORD"),
		BcryptCost:     getEnvInt("CHAT_BCRYPT_COST", 0),
		LoginRate:      getEnvInt("CHAT_LOGIN_RATE", 10),
		LoginWindow:    getEnvDuration("CHAT_LOGIN_WINDOW", time.Minute),
		LogLevel:       getEnv("CHAT_LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("CHAT_JWT_SECRET must be set")
	}

	return cfg, nil
}

// UsersDBPath is the SQLite file holding the user directory.
func (c *Config) UsersDBPath() string {
	return c.DataDir + "/users.db"
}

// ChatDBPath is the BoltDB file holding the message log and settings.
func (c *Config) ChatDBPath() string {
	return c.DataDir + "/chat.db"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
