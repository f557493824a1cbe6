package models

const (
	// DefaultRefreshInterval is used whenever no valid setting is stored.
	DefaultRefreshInterval = 2
	// MinRefreshInterval and MaxRefreshInterval bound the configurable
	// auto-refresh cadence, in seconds.
	MinRefreshInterval = 1
	MaxRefreshInterval = 10
)

// AdminSettings is the singleton application configuration mutated only
// by an administrator.
type AdminSettings struct {
	AutoRefreshInterval int `json:"auto_refresh_interval"`
}

// DefaultAdminSettings returns the settings used when nothing valid is
// persisted.
func DefaultAdminSettings() AdminSettings {
	return AdminSettings{AutoRefreshInterval: DefaultRefreshInterval}
}
