package config

import (
	"errors"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	AppPort               int    `mapstructure:"APP_PORT"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	DataPath              string `mapstructure:"DATA_PATH"`
	SweepIntervalSec      int    `mapstructure:"SWEEP_INTERVAL_SEC"`
	TrashRetentionDays    int    `mapstructure:"TRASH_RETENTION_DAYS"`
	WSMaxSessionSec       int    `mapstructure:"WS_MAX_SESSION_SEC"`
	WSOutboxBuffer        int    `mapstructure:"WS_OUTBOX_BUFFER"`
	RouteMetricsEnabled   bool   `mapstructure:"ROUTE_METRICS_ENABLED"`
	RequestLoggingEnabled bool   `mapstructure:"REQUEST_LOGGING_ENABLED"`
	RateLimitPerMin       int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	BodyLimitMB           int    `mapstructure:"BODY_LIMIT_MB"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	PyroscopeAddress      string `mapstructure:"PYROSCOPE_SERVER_ADDRESS"`
}

// Validation errors returned by Config.Validate.
var (
	ErrAppPortRange      = errors.New("APP_PORT must be between 1 and 65535")
	ErrLogLevelEmpty     = errors.New("LOG_LEVEL cannot be empty")
	ErrLogFormatEmpty    = errors.New("LOG_FORMAT cannot be empty")
	ErrDataPathEmpty     = errors.New("DATA_PATH cannot be empty")
	ErrSweepInterval     = errors.New("SWEEP_INTERVAL_SEC must be greater than 0")
	ErrTrashRetention    = errors.New("TRASH_RETENTION_DAYS must be greater than 0")
	ErrWSMaxSession      = errors.New("WS_MAX_SESSION_SEC must be greater than 0")
	ErrWSOutboxBuffer    = errors.New("WS_OUTBOX_BUFFER must be greater than 0")
	ErrRateLimitNegative = errors.New("RATE_LIMIT_PER_MIN cannot be negative")
	ErrBodyLimit         = errors.New("BODY_LIMIT_MB must be greater than 0")
	ErrJWTSecretTooShort = errors.New("JWT_SECRET must be at least 32 characters for HS256")
)

var (
	cachedConfig *Config
	configMutex  sync.RWMutex
)

// Load loads configuration from environment variables and .env file
// It caches the result for subsequent calls
func Load() (Config, error) {
	configMutex.RLock()
	if cachedConfig != nil {
		defer configMutex.RUnlock()
		return *cachedConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	// Double-check in case another goroutine loaded it while we waited for the lock
	if cachedConfig != nil {
		return *cachedConfig, nil
	}

	v := viper.New()

	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DATA_PATH", "./data/board.db")
	v.SetDefault("SWEEP_INTERVAL_SEC", 60)
	v.SetDefault("TRASH_RETENTION_DAYS", 15)
	v.SetDefault("WS_MAX_SESSION_SEC", 900)
	v.SetDefault("WS_OUTBOX_BUFFER", 256) // WebSocket channel buffer size
	v.SetDefault("ROUTE_METRICS_ENABLED", true)
	v.SetDefault("REQUEST_LOGGING_ENABLED", true)
	v.SetDefault("RATE_LIMIT_PER_MIN", 0)
	v.SetDefault("BODY_LIMIT_MB", 16) // images travel inline as data URLs
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("PYROSCOPE_SERVER_ADDRESS", "")

	// Configure Viper to read from .env file (if present)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// Try to read .env file (it's okay if it doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	// Override with OS environment variables
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cachedConfig = &cfg

	return cfg, nil
}

// ResetCache clears the cached configuration (for testing purposes)
func ResetCache() {
	configMutex.Lock()
	defer configMutex.Unlock()
	cachedConfig = nil
}

// Validate checks if required configuration fields are properly set
func (c Config) Validate() error {
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return ErrAppPortRange
	}
	if c.LogLevel == "" {
		return ErrLogLevelEmpty
	}
	if c.LogFormat == "" {
		return ErrLogFormatEmpty
	}
	if c.DataPath == "" {
		return ErrDataPathEmpty
	}
	if c.SweepIntervalSec <= 0 {
		return ErrSweepInterval
	}
	if c.TrashRetentionDays <= 0 {
		return ErrTrashRetention
	}
	if c.WSMaxSessionSec <= 0 {
		return ErrWSMaxSession
	}
	if c.WSOutboxBuffer <= 0 {
		return ErrWSOutboxBuffer
	}
	if c.RateLimitPerMin < 0 {
		return ErrRateLimitNegative
	}
	if c.BodyLimitMB <= 0 {
		return ErrBodyLimit
	}
	// An empty secret keeps the local API open; a set one must be strong enough for HS256.
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return ErrJWTSecretTooShort
	}
	return nil
}

// AuthEnabled reports whether API requests must carry a bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// SweepInterval is the period of the trash expiration sweep.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// TrashRetention is how long a trashed note survives before it is purged.
func (c Config) TrashRetention() time.Duration {
	return time.Duration(c.TrashRetentionDays) * 24 * time.Hour
}
