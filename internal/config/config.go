package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level irmodoro configuration.
type Config struct {
	Durations     Durations     `mapstructure:"durations"`
	Notifications Notifications `mapstructure:"notifications"`
	Remote        Remote        `mapstructure:"remote"`
	Output        Output        `mapstructure:"output"`
}

// Durations defines session lengths and the set plan.
type Durations struct {
	Work      time.Duration `mapstructure:"work"`
	Rest      time.Duration `mapstructure:"rest"`
	TotalSets int           `mapstructure:"total_sets"`
}

// Notifications defines notification preferences.
type Notifications struct {
	Enabled bool `mapstructure:"enabled"`
}

// Remote defines the optional remote profile service used by `irmodoro sync`.
type Remote struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("durations.work", DefaultDurations.Work)
	v.SetDefault("durations.rest", DefaultDurations.Rest)
	v.SetDefault("durations.total_sets", DefaultDurations.TotalSets)
	v.SetDefault("notifications.enabled", DefaultNotifications.Enabled)
	v.SetDefault("remote.enabled", DefaultRemote.Enabled)
	v.SetDefault("remote.base_url", DefaultRemote.BaseURL)
	v.SetDefault("remote.timeout", DefaultRemote.Timeout)
	v.SetDefault("output.color", DefaultOutput.Color)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error for problems other than file not found.
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// UserIDPath returns the full path to the persisted anonymous user id.
func UserIDPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultUserIDName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
