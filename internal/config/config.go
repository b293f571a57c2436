package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Task     TaskConfig     `mapstructure:"task"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes is the validity window of issued access tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`
	// RefreshTokenLifetimeMinutes is the validity window of refresh tokens.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lte=43200"`
	// BcryptCost controls the work factor of password hashing. Zero means
	// the bcrypt default cost.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	// WorkerCount is the number of concurrent workers draining the queue.
	WorkerCount int `mapstructure:"worker_count" validate:"omitempty,gt=0,lte=64"`
	// QueueSize is the capacity of the in-memory task queue.
	QueueSize int `mapstructure:"queue_size" validate:"omitempty,gt=0"`
	// MaxRetries is how many times a failed task is retried before being dropped.
	MaxRetries int `mapstructure:"max_retries" validate:"omitempty,gte=0,lte=10"`
}

// SRSConfig overrides scheduling policy parameters. Zero values keep the
// engine defaults.
type SRSConfig struct {
	MaxIntervalDays int `mapstructure:"max_interval_days" validate:"omitempty,gt=0"`
	// LeechThreshold is the lapse count at which a card is suspended.
	// Use -1 to disable leech suspension entirely.
	LeechThreshold int `mapstructure:"leech_threshold" validate:"omitempty,gte=-1"`
}
