package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	App       AppConfig       `mapstructure:"app"`
	Features  FeaturesConfig  `mapstructure:"features"`
	Email     EmailConfig     `mapstructure:"email"`
	SMS       SMSConfig       `mapstructure:"sms"`
	Push      PushConfig      `mapstructure:"push"`
	Bulk      BulkConfig      `mapstructure:"bulk"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Queue     QueueConfig     `mapstructure:"queue"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// AppConfig holds application-level settings. FrontendURL is the base the
// calling layer uses to build event/RSVP deep links placed into template
// variables; the dispatcher itself never constructs links.
type AppConfig struct {
	FrontendURL string `mapstructure:"frontend_url"`
}

// FeaturesConfig holds per-channel feature flags. A disabled flag causes
// the manager to skip that channel for every recipient.
type FeaturesConfig struct {
	Email bool `mapstructure:"email"`
	SMS   bool `mapstructure:"sms"`
	Push  bool `mapstructure:"push"`
}

// EmailConfig holds email provider settings. When APIKey is set the
// transactional API strategy is used; otherwise SMTP settings select the
// fallback strategy. Neither configured means the provider is disabled.
type EmailConfig struct {
	APIKey       string `mapstructure:"api_key"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
}

// SMSConfig holds Twilio transport settings.
type SMSConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
}

// PushConfig holds Firebase Cloud Messaging settings.
type PushConfig struct {
	ServerKey string `mapstructure:"server_key"`
}

// BulkConfig holds campaign runner settings.
type BulkConfig struct {
	Concurrency    int `mapstructure:"concurrency"`
	SendTimeoutSec int `mapstructure:"send_timeout_sec"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig holds HTTP-surface rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SupabaseConfig holds the member directory connection settings.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// QueueConfig holds campaign queue settings.
type QueueConfig struct {
	Concurrency  int `mapstructure:"concurrency"`
	ReportTTLSec int `mapstructure:"report_ttl_sec"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the HERALD_ prefix and underscore separators.
// Example: HERALD_FEATURES_SMS overrides features.sms in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable settings
	v.SetEnvPrefix("HERALD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("app.frontend_url", "http://localhost:3000")
	v.SetDefault("features.email", true)
	v.SetDefault("features.sms", false)
	v.SetDefault("features.push", false)
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("bulk.concurrency", 1)
	v.SetDefault("bulk.send_timeout_sec", 15)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.report_ttl_sec", 86400)

	// Read config file (optional — env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Handle comma-separated API keys from env var
	if apiKeysStr := v.GetString("auth.api_keys"); apiKeysStr != "" && len(cfg.Auth.APIKeys) == 0 {
		keys := strings.Split(apiKeysStr, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		cfg.Auth.APIKeys = keys
	}

	return &cfg, nil
}
