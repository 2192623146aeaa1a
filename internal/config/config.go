package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config holds the configuration for the stackmatch server.
type Config struct {
	// Listen is the address the HTTP server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// Gzip enables gzip compression of responses.
	Gzip bool `yaml:"gzip" mapstructure:"gzip"`
	// Database holds the store configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Stats holds the configuration of the periodic store statistics job.
	Stats *StatsConfig `yaml:"stats" mapstructure:"stats"`
}

// DatabaseConfig holds the store configuration.
type DatabaseConfig struct {
	// URL is the connection string of the store.
	// Supported schemes are sqlite://, sqlite3://, file:, postgres:// and postgresql://.
	URL string `yaml:"url" mapstructure:"url"`
	// ConnectAttempts is how often connecting is tried on startup before giving up.
	ConnectAttempts int `yaml:"connect_attempts" mapstructure:"connect_attempts"`
	// ConnectDelay is the fixed delay between two connection attempts.
	ConnectDelay time.Duration `yaml:"connect_delay" mapstructure:"connect_delay"`
	// MaxOpenConns limits the size of the connection pool (postgres only).
	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns"`
}

// StatsConfig holds the configuration of the store statistics job.
type StatsConfig struct {
	// Enabled indicates whether the statistics job is scheduled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Schedule is the cron schedule of the job (e.g., "0 * * * *" for every hour).
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error, defaults and environment variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	// the legacy deployment only sets DATABASE_URL
	v.MustBindEnv("database.url", "STACKMATCH_DATABASE_URL", "DATABASE_URL")

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("STACKMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stackmatch")
		v.AddConfigPath("/etc/stackmatch")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("gzip", true)

	// Database defaults
	v.SetDefault("database.url", "sqlite:///data/stackmatch.db")
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("database.connect_delay", 2*time.Second)
	v.SetDefault("database.max_open_conns", 10)

	// Stats defaults
	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.schedule", "0 * * * *") // Every hour
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing config")
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.Database == nil {
		return fmt.Errorf("missing database config")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("database connect attempts must be at least 1")
	}
	if c.Database.ConnectDelay <= 0 {
		return fmt.Errorf("database connect delay must be positive")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max open connections must be at least 1")
	}

	if c.Stats == nil {
		c.Stats = &StatsConfig{Enabled: false}
	}
	if c.Stats.Enabled {
		// Basic validation for cron format (5 fields)
		if len(strings.Fields(c.Stats.Schedule)) != 5 {
			return fmt.Errorf("stats schedule must be a valid cron expression with 5 fields (minute hour day month weekday)")
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.Database != nil {
		c.Database.URL = strings.TrimSpace(c.Database.URL)
	}
}
