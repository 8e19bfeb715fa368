package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	// A .env file is optional; values from it become plain environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/email-verify-api/")
	v.AddConfigPath("$HOME/.email-verify-api")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("VERIFY_API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit file path
func NewFromFile(path string) (*Config, error) {
	v := NewEmptyViper()
	v.SetConfigFile(path)

	v.AutomaticEnv()
	v.SetEnvPrefix("VERIFY_API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
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

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.frontend", "http")
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.cors.allowed_origins", []string{"*"})

	// DNS defaults
	v.SetDefault("dns.type", "system")
	v.SetDefault("dns.nameserver", "1.1.1.1:53")
	v.SetDefault("dns.timeout", "5s")

	// SMTP probe defaults
	v.SetDefault("smtp.port", 25)
	v.SetDefault("smtp.timeout", "10s")
	v.SetDefault("smtp.helo_identity", "verifyflow.com")
	v.SetDefault("smtp.mail_from", "verify@verifyflow.com")
	v.SetDefault("smtp.proxy_address", "")
	v.SetDefault("smtp.proxy_username", "")
	v.SetDefault("smtp.proxy_password", "")
	v.SetDefault("smtp.skip_domains", []string{})

	// Disposable domain store defaults
	v.SetDefault("disposable.store", "memory")
	v.SetDefault("disposable.key", "disposable_domains")
	v.SetDefault("disposable.redis_url", "redis://localhost:6379/0")
	v.SetDefault("disposable.sqlite_path", "/data/disposable_domains.db")
	v.SetDefault("disposable.mysql_dsn", "user:password@tcp(localhost:3306)/email_verify")
	v.SetDefault("disposable.dynamodb.table", "disposable_domains")
	v.SetDefault("disposable.dynamodb.region", "us-east-1")
	v.SetDefault("disposable.dynamodb.endpoint", "")
	v.SetDefault("disposable.dynamodb.generation_ttl", "72h")

	// Disposable list refresh defaults
	v.SetDefault("disposable.refresh.enabled", RefreshAuto)
	v.SetDefault("disposable.refresh.on_start", true)
	v.SetDefault("disposable.refresh.url", DefaultDisposableListURL)
	v.SetDefault("disposable.refresh.interval", "24h")
	v.SetDefault("disposable.refresh.timeout", "60s")
	v.SetDefault("disposable.refresh.min_domains", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// RefreshAuto enables the refresh job only for stores that start empty in
// every process (memory)
const RefreshAuto = "auto"

// DefaultDisposableListURL is the public list the refresh job downloads by default
const DefaultDisposableListURL = "https://raw.githubusercontent.com/disposable-email-domains/disposable-email-domains/master/domains.txt"

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
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
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
