package api

// PostMessageRequest is the submit payload.
type PostMessageRequest struct {
	Content string `json:"content"`
}

// Message is one chat message on the wire.
type Message struct {
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
}

// ChatSnapshotResponse is a full view of the log plus the refresh
// cadence the client should poll at.
type ChatSnapshotResponse struct {
	Messages            []Message `json:"messages"`
	Count               int       `json:"count"`
	AutoRefreshInterval int       `json:"auto_refresh_interval"`
}

// PostMessageResponse echoes the stored message.
type PostMessageResponse struct {
	Message Message `json:"message"`
}
