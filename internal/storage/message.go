package storage

import (
	"context"

	"github.com/globalchat/globalchat/internal/models"
)

// MessageLimit is the retention cap of the message log. When an append
// pushes the log past the cap, the oldest entries are evicted in the same
// transaction.
const MessageLimit = 1000

// MessageStorage defines the interface for the ordered, capacity-bounded
// message log. Implementations must make AppendMessage atomic with
// respect to concurrent appends: no message may be lost, and eviction
// must apply to the true post-merge length.
type MessageStorage interface {
	// AppendMessage inserts a message at the tail of the log, evicting
	// from the head while the log exceeds MessageLimit.
	AppendMessage(ctx context.Context, msg *models.Message) error

	// LoadMessages returns all retained messages, oldest first. Safe to
	// call concurrently with AppendMessage; readers never observe a
	// partial write.
	LoadMessages(ctx context.Context) ([]models.Message, error)

	// CountMessages returns the number of retained messages.
	CountMessages(ctx context.Context) (int, error)

	// ClearMessages resets the log to empty.
	ClearMessages(ctx context.Context) error
}
