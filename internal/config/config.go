// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session backends for the durable identity record.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
	SessionBackendSQL   = "sql"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	APIBaseURL      string        `mapstructure:"API_BASE_URL"`
	AuthBaseURL     string        `mapstructure:"AUTH_BASE_URL"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionBackend  string        `mapstructure:"SESSION_BACKEND"`
	SessionFile     string        `mapstructure:"SESSION_FILE"`
	SessionDBDriver string        `mapstructure:"SESSION_DB_DRIVER"`
	SessionDBDSN    string        `mapstructure:"SESSION_DB_DSN"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	PublishToasts   bool          `mapstructure:"PUBLISH_NOTIFICATIONS"`
	FeatureFlags    string        `mapstructure:"FEATURE_FLAGS"`
	Env             string        `mapstructure:"APP_ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRate float64 `mapstructure:"TRACING_SAMPLER_RATIO"`

	MockAPIPort         string `mapstructure:"MOCKAPI_PORT"`
	MockAPIQuizSize     int    `mapstructure:"MOCKAPI_QUIZ_SIZE"`
	MockAPIVoteChange   bool   `mapstructure:"MOCKAPI_ALLOW_VOTE_CHANGE"`
	MockAPISeed         bool   `mapstructure:"MOCKAPI_SEED"`
	MockAPIAllowOrigins string `mapstructure:"MOCKAPI_ALLOWED_ORIGINS"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base config file is optional.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.SessionBackend = strings.ToLower(strings.TrimSpace(config.SessionBackend))
	config.SessionDBDriver = strings.ToLower(strings.TrimSpace(config.SessionDBDriver))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_BASE_URL", "http://localhost:8081/api")
	v.SetDefault("AUTH_BASE_URL", "http://localhost:8080/api/auth")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("SESSION_BACKEND", SessionBackendFile)
	v.SetDefault("SESSION_FILE", ".codego/session.json")
	v.SetDefault("SESSION_DB_DRIVER", "sqlite")
	v.SetDefault("SESSION_DB_DSN", ".codego/session.db")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("PUBLISH_NOTIFICATIONS", false)
	v.SetDefault("FEATURE_FLAGS", "optimistic_votes=on")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
	v.SetDefault("MOCKAPI_PORT", "8081")
	v.SetDefault("MOCKAPI_QUIZ_SIZE", 10)
	v.SetDefault("MOCKAPI_ALLOW_VOTE_CHANGE", false)
	v.SetDefault("MOCKAPI_SEED", true)
	v.SetDefault("MOCKAPI_ALLOWED_ORIGINS", "*")
}

// Validate ensures that required configuration values are present and usable.
func (c *Config) Validate() error {
	if err := validateBaseURL("API_BASE_URL", c.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("AUTH_BASE_URL", c.AuthBaseURL); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}

	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			return errors.New("SESSION_FILE is required for the file session backend")
		}
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis session backend")
		}
	case SessionBackendSQL:
		if c.SessionDBDriver != "sqlite" && c.SessionDBDriver != "postgres" {
			return fmt.Errorf("SESSION_DB_DRIVER must be sqlite or postgres, got %q", c.SessionDBDriver)
		}
		if c.SessionDBDSN == "" {
			return errors.New("SESSION_DB_DSN is required for the sql session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.TracingSamplerRate < 0 || c.TracingSamplerRate > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		for _, raw := range []string{c.APIBaseURL, c.AuthBaseURL} {
			if u, _ := url.Parse(raw); u != nil && u.Scheme != "https" {
				log.Printf("WARNING: %s is not using https in production.", raw)
			}
		}
	}

	return nil
}

// IsProduction reports whether the config targets a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func validateBaseURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}
