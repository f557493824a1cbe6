package api

// UserView is an account as shown to administrators. It never carries
// credential material.
type UserView struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login,omitempty"`
}

// UserListResponse is the administrative account listing.
type UserListResponse struct {
	Users []UserView `json:"users"`
}

// SetStatusRequest changes an account's moderation status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SettingsPayload carries the admin settings in both directions.
type SettingsPayload struct {
	AutoRefreshInterval int `json:"auto_refresh_interval"`
}

// StatsResponse is the admin panel's system information block.
type StatsResponse struct {
	TotalMessages int `json:"total_messages"`
	TotalUsers    int `json:"total_users"`
	LiveSessions  int `json:"live_sessions"`
}
