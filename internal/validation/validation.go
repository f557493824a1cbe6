package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/globalchat/globalchat/internal/models"
)

// UsernamePattern defines the accepted username format: latin letters,
// digits and underscore, 3-32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen is the minimum username length.
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length.
	MaxUsernameLen = 32
	// MinPasswordLen is the minimum password length.
	MinPasswordLen = 8
	// MaxContentLen caps a single chat message, in runes.
	MaxContentLen = 2000
)

// ValidateUsername checks that username matches the accepted format.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateContent checks that a chat message is non-empty and within the
// size cap.
func ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("message cannot be empty")
	}

	if utf8.RuneCountInString(content) > MaxContentLen {
		return fmt.Errorf("message must not exceed %d characters", MaxContentLen)
	}

	return nil
}

// ValidateRefreshInterval checks that the auto-refresh interval is within
// the allowed range.
func ValidateRefreshInterval(seconds int) error {
	if seconds < models.MinRefreshInterval || seconds > models.MaxRefreshInterval {
		return fmt.Errorf("auto-refresh interval must be between %d and %d seconds",
			models.MinRefreshInterval, models.MaxRefreshInterval)
	}
	return nil
}
