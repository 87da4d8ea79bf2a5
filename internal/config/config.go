package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Craft    CraftConfig    `mapstructure:"craft"`
	Events   EventsConfig   `mapstructure:"events"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	InternalPort string        `mapstructure:"internal_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	URL               string        `mapstructure:"url"`
	MaxConnections    int           `mapstructure:"max_connections"`
	MaxIdleTime       time.Duration `mapstructure:"max_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	PingTimeout       time.Duration `mapstructure:"ping_timeout"`
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	URL            string        `mapstructure:"url"`
	AuthURL        string        `mapstructure:"auth_url"`
	MaxConnections int           `mapstructure:"max_connections"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	PublicKeyURL    string        `mapstructure:"public_key_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// TimeoutsConfig contains various timeout configurations
type TimeoutsConfig struct {
	HTTPMiddleware     time.Duration `mapstructure:"http_middleware"`
	JWTValidatorClient time.Duration `mapstructure:"jwt_validator_client"`
	GracefulShutdown   time.Duration `mapstructure:"graceful_shutdown"`
	DatabaseHealth     time.Duration `mapstructure:"database_health"`
	RedisHealth        time.Duration `mapstructure:"redis_health"`
}

// CatalogConfig controls potion catalog caching and the background refresher
type CatalogConfig struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefreshTimeout  time.Duration `mapstructure:"refresh_timeout"`
	SeedFile        string        `mapstructure:"seed_file"`
}

// CraftConfig controls crafting behaviour
type CraftConfig struct {
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// EventsConfig controls live update publishing
type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// MetricsConfig contains metrics collection configuration
type MetricsConfig struct {
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/alchemy-service")

	// Set environment variable prefix and key replacement
	viper.SetEnvPrefix("ALCH_SVC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind environment variables for better reliability
	for field, envVar := range requiredFields {
		viper.BindEnv(field, envVar)
	}
	viper.BindEnv("catalog.refresh_interval", "ALCH_SVC_CATALOG_REFRESH_INTERVAL")
	viper.BindEnv("craft.lock_ttl", "ALCH_SVC_CRAFT_LOCK_TTL")
	viper.BindEnv("events.enabled", "ALCH_SVC_EVENTS_ENABLED")

	setDefaults()

	// Try to read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// requiredFields maps required configuration keys to their environment variables
var requiredFields = map[string]string{
	"database.url":         "ALCH_SVC_DATABASE_URL",
	"redis.url":            "ALCH_SVC_REDIS_URL",
	"redis.auth_url":       "ALCH_SVC_REDIS_AUTH_URL",
	"server.port":          "ALCH_SVC_SERVER_PORT",
	"server.internal_port": "ALCH_SVC_SERVER_INTERNAL_PORT",
	"auth.public_key_url":  "ALCH_SVC_AUTH_PUBLIC_KEY_URL",
}

// setDefaults sets default values for configuration
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")

	// Database defaults
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "5m")
	viper.SetDefault("database.health_check_period", "1m")
	viper.SetDefault("database.ping_timeout", "5s")

	// Redis defaults
	viper.SetDefault("redis.max_connections", 10)
	viper.SetDefault("redis.read_timeout", "3s")
	viper.SetDefault("redis.write_timeout", "3s")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.ping_timeout", "5s")

	// Auth defaults
	viper.SetDefault("auth.refresh_interval", "24h")

	viper.SetDefault("logging.level", "info")

	// Timeout defaults
	viper.SetDefault("timeouts.http_middleware", "60s")
	viper.SetDefault("timeouts.jwt_validator_client", "10s")
	viper.SetDefault("timeouts.graceful_shutdown", "30s")
	viper.SetDefault("timeouts.database_health", "2s")
	viper.SetDefault("timeouts.redis_health", "2s")

	// Catalog defaults
	viper.SetDefault("catalog.cache_ttl", "1h")
	viper.SetDefault("catalog.refresh_interval", "10m")
	viper.SetDefault("catalog.refresh_timeout", "30s")
	viper.SetDefault("catalog.seed_file", "configs/potions.yaml")

	viper.SetDefault("craft.lock_ttl", "10s")

	viper.SetDefault("events.enabled", true)
	viper.SetDefault("events.channel_prefix", "alchemy:player:")

	viper.SetDefault("metrics.update_interval", "10s")
}

// Validate validates the configuration and ensures required fields are present
func (c *Config) Validate() error {
	for field, envVar := range requiredFields {
		if !viper.IsSet(field) {
			return fmt.Errorf("required configuration field '%s' is not set (use environment variable %s)", field, envVar)
		}

		if viper.GetString(field) == "" {
			return fmt.Errorf("required configuration field '%s' cannot be empty (set environment variable %s)", field, envVar)
		}
	}

	// Validate timeout values are reasonable
	timeouts := map[string]time.Duration{
		"server.read_timeout":      c.Server.ReadTimeout,
		"server.write_timeout":     c.Server.WriteTimeout,
		"database.ping_timeout":    c.Database.PingTimeout,
		"redis.ping_timeout":       c.Redis.PingTimeout,
		"catalog.refresh_interval": c.Catalog.RefreshInterval,
		"catalog.refresh_timeout":  c.Catalog.RefreshTimeout,
		"craft.lock_ttl":           c.Craft.LockTTL,
	}
	if c.Auth.RefreshInterval <= 0 {
		return fmt.Errorf("auth.refresh_interval must be positive, got %v", c.Auth.RefreshInterval)
	}

	for name, timeout := range timeouts {
		if timeout <= 0 {
			return fmt.Errorf("timeout '%s' must be positive, got %v", name, timeout)
		}
		if timeout > 10*time.Minute {
			return fmt.Errorf("timeout '%s' seems too large, got %v", name, timeout)
		}
	}

	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog.cache_ttl must be positive, got %v", c.Catalog.CacheTTL)
	}

	// Validate numeric values
	if c.Database.MaxConnections <= 0 {
		return fmt.Errorf("database.max_connections must be positive, got %d", c.Database.MaxConnections)
	}
	if c.Redis.MaxConnections <= 0 {
		return fmt.Errorf("redis.max_connections must be positive, got %d", c.Redis.MaxConnections)
	}
	if c.Redis.MaxRetries < 0 {
		return fmt.Errorf("redis.max_retries cannot be negative, got %d", c.Redis.MaxRetries)
	}
	if c.Events.Enabled && c.Events.ChannelPrefix == "" {
		return fmt.Errorf("events.channel_prefix cannot be empty when events are enabled")
	}

	return nil
}
