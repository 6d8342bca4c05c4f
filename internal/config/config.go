package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

const (
	DefaultSecretKey   = "defaultsecret"
	DefaultDatabaseURL = "sqlite:///database.db"
	DefaultPort        = 5000
)

// Config used for the application configuration, loading the input from environment variables.
// It is built once at startup and handed to the components that need it; nothing mutates it afterwards.
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Environment name, drives the default log level
	Environment string `json:"environment"`

	// Database connection string, sqlite:///path or postgres://...
	DatabaseURL string `json:"database_url"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	SecretKey string `json:"secret_key"`

	// Origins allowed by the CORS middleware
	AllowedOrigins []string `json:"allowed_origins"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DatabaseURL: %s, LogLevel: %s, SecretKey: [REDACTED], AllowedOrigins: %v}",
		c.Port, c.Host, c.Environment, maskDatabaseURL(c.DatabaseURL), c.LogLevel, c.AllowedOrigins)
}

// Addr returns the listen address in host:port form
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "REDACTED")
		}
	}

	return parsed.String()
}

// LoadConfig reads the configuration from environment variables and returns a Config struct.
// Returns an error if PORT is not a number or DATABASE_URL is not a parseable URL.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d out of range", port)
	}

	dbURL := GetEnvWithDefault("DATABASE_URL", DefaultDatabaseURL)
	if _, err := url.Parse(dbURL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	secret := GetEnvWithDefault("SECRET_KEY", DefaultSecretKey)
	if secret == DefaultSecretKey {
		log.Warn("SECRET_KEY is not set, tokens are signed with the built-in default secret")
	}

	config := &Config{
		Port:           port,
		Host:           GetEnvWithDefault("APP_HOST", "0.0.0.0"),
		Environment:    GetEnvWithDefault("APP_ENV", "development"),
		DatabaseURL:    dbURL,
		LogLevel:       GetEnvWithDefault("LOG_LEVEL", ""),
		SecretKey:      secret,
		AllowedOrigins: splitList(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// LevelForEnvironment maps an APP_ENV value to the log level used by the service
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Level resolves the effective log level: an explicit LOG_LEVEL wins over the environment default
func (c *Config) Level() logrus.Level {
	if c.LogLevel != "" {
		if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
			return lvl
		}
		log.Warnf("Unknown LOG_LEVEL %q, falling back to environment default", c.LogLevel)
	}
	return LevelForEnvironment(c.Environment)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
