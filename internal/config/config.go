package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring"    validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gt=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig contains the settings used to verify bearer tokens issued by the
// identity provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer    string `mapstructure:"issuer"`
}

// ScoringConfig contains the submission policy applied around the engine.
type ScoringConfig struct {
	// MinCompletion is the share of questions that must be answered before a
	// submission is scored and stored.
	MinCompletion float64 `mapstructure:"min_completion" validate:"gt=0,lte=1"`
}

// RateLimitConfig limits scoring requests per user (or per client IP for
// anonymous previews).
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gt=0"`
	Burst             int `mapstructure:"burst"               validate:"gt=0"`
	MaxClients        int `mapstructure:"max_clients"         validate:"gt=0"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
