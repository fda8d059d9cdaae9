package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/ipper/")
	v.AddConfigPath("$HOME/.ipper")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("IPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Project defaults
	v.SetDefault("project.name", "kafka")

	// Mailing list defaults
	v.SetDefault("mail.list", "dev")
	v.SetDefault("mail.days_back", 365)
	v.SetDefault("mail.archive_dir", "archives")
	v.SetDefault("mail.metadata_file", "mentions_metadata.json")
	v.SetDefault("mail.download_timeout", "30s")
	v.SetDefault("mail.overwrite", false)
	v.SetDefault("mail.use_metadata", false)

	// Committer index defaults
	v.SetDefault("committers.enabled", true)
	v.SetDefault("committers.cache_path", "cache/committers.json")
	v.SetDefault("committers.max_age_days", 7)
	v.SetDefault("committers.name_threshold", 70.0)
	v.SetDefault("committers.force_refresh", false)

	// Mention store defaults
	v.SetDefault("store.type", "csv")
	v.SetDefault("store.csv_path", "cache/mentions.csv")
	v.SetDefault("store.sqlite_path", "cache/mentions.db")
	v.SetDefault("store.mysql_dsn", "user:password@tcp(localhost:3306)/ipper")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
