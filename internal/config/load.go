package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "TMS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is loaded first when present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Mail.Enabled() && cfg.Mail.From == "" {
		return fmt.Errorf("config validation failed: mail.from is required when mail.host is set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60*24*7)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_cache_ttl", 30*time.Minute)
	v.SetDefault("auth.principal_cache_ttl", 5*time.Minute)
	v.SetDefault("auth.store_timeout", 3*time.Second)
	v.SetDefault("auth.rehash_timeout", 10*time.Second)

	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 256)
	v.SetDefault("task.task_timeout", 15*time.Second)
	v.SetDefault("task.stop_timeout", 5*time.Second)

	v.SetDefault("notify.delivery_timeout", 8*time.Second)
	v.SetDefault("notify.list_limit", 50)

	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.use_ssl", true)
	v.SetDefault("mail.connect_timeout", 3*time.Second)
	v.SetDefault("mail.socket_timeout", 5*time.Second)
}

// bindEnvs registers keys that have no default so AutomaticEnv can see them
// during Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"mail.host",
		"mail.username",
		"mail.password",
		"mail.from",
	} {
		_ = v.BindEnv(key)
	}
}
