package models

// RoleUser is the role recorded on every chat message. The log has a
// single message kind today; the field is kept on the wire format so the
// stored record stays self-describing.
const RoleUser = "user"

// Message is one chat message. Messages are immutable once appended;
// the only removals are FIFO eviction past the retention cap and an
// administrator's bulk clear.
type Message struct {
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
}
