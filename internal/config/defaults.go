// Package config provides configuration loading and defaults for irmodoro.
package config

import "time"

// DefaultConfigDir is the default location for irmodoro configuration and data.
const DefaultConfigDir = "~/.config/irmodoro"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "irmodoro.db"

// DefaultUserIDName is the filename holding the stable anonymous user id
// used by remote sync.
const DefaultUserIDName = "user_id"

// DefaultDurations holds the default session lengths and set count.
var DefaultDurations = Durations{
	Work:      25 * time.Minute,
	Rest:      5 * time.Minute,
	TotalSets: 4,
}

// DefaultNotifications holds the default notification preferences.
var DefaultNotifications = Notifications{
	Enabled: true,
}

// DefaultRemote holds the default remote sync settings. Sync is opt-in.
var DefaultRemote = Remote{
	Enabled: false,
	BaseURL: "",
	Timeout: 10 * time.Second,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}
