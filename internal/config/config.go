package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify"   validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication, token and credential cache settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the target work factor. Stored hashes below it are
	// upgraded in the background after a successful login.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`

	// LoginCacheTTL bounds how long a verified credential is served from memory.
	LoginCacheTTL time.Duration `mapstructure:"login_cache_ttl" validate:"required,gt=0"`

	// PrincipalCacheTTL bounds how long the auth middleware reuses a user lookup.
	PrincipalCacheTTL time.Duration `mapstructure:"principal_cache_ttl" validate:"required,gt=0"`

	// StoreTimeout caps each credential store call made on the login path.
	StoreTimeout time.Duration `mapstructure:"store_timeout" validate:"required,gt=0"`

	// RehashTimeout caps one background rehash job.
	RehashTimeout time.Duration `mapstructure:"rehash_timeout" validate:"required,gt=0"`
}

// TaskConfig configures the background worker pool.
type TaskConfig struct {
	WorkerCount int           `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int           `mapstructure:"queue_size"   validate:"required,gt=0"`
	TaskTimeout time.Duration `mapstructure:"task_timeout" validate:"required,gt=0"`
	// StopTimeout bounds how long shutdown waits for in-flight tasks.
	StopTimeout time.Duration `mapstructure:"stop_timeout" validate:"omitempty,gt=0"`
}

// NotifyConfig configures task notification delivery.
type NotifyConfig struct {
	// DeliveryTimeout is the overall budget for one delivery attempt.
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout" validate:"required,gt=0,lte=10s"`
	ListLimit       int           `mapstructure:"list_limit"       validate:"required,gt=0"`
}

// MailConfig configures the SMTP transport. An empty Host disables e-mail
// delivery; notifications are still recorded.
type MailConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"            validate:"omitempty,gt=0,lt=65536"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	From           string        `mapstructure:"from"            validate:"omitempty,email"`
	UseSSL         bool          `mapstructure:"use_ssl"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"omitempty,gt=0"`
	SocketTimeout  time.Duration `mapstructure:"socket_timeout"  validate:"omitempty,gt=0"`
}

// Enabled reports whether an SMTP host has been configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}
