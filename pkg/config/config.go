package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Notifier      NotifierConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	AllowedOrigins     []string
	MaxUploadBytes     int64
	FetchTimeout       time.Duration
	ShutdownTimeout    time.Duration
	// JWTSecret enables HS256 bearer auth on /api routes when set
	JWTSecret          string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Notifier backends for unsupported bank reports
const (
	NotifierLog     = "log"
	NotifierSQS     = "sqs"
	NotifierEmail   = "email"
	NotifierWebhook = "webhook"
)

type NotifierConfig struct {
	Type        string
	SQSQueueURL string
	SQSRegion   string
	ResendKey   string
	EmailFrom   string
	EmailTo     string
	WebhookURL  string
}

type StorageConfig struct {
	UploadDir     string
	Retention     time.Duration
	PurgeSchedule string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
}

// Load reads configuration from environment variables, after applying a
// .env file from the working directory when one exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 40),
			AllowedOrigins:     getEnvAsList("SERVER_ALLOWED_ORIGINS", []string{"*"}),
			MaxUploadBytes:     int64(getEnvAsInt("SERVER_MAX_UPLOAD_BYTES", 5*1024*1024)),
			FetchTimeout:       getEnvAsDuration("SERVER_FETCH_TIMEOUT", 30*time.Second),
			JWTSecret:          getEnv("API_JWT_SECRET", ""),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "statements"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Notifier: NotifierConfig{
			Type:        strings.ToLower(getEnv("NOTIFIER_TYPE", NotifierLog)),
			SQSQueueURL: getEnv("SQS_QUEUE_URL", ""),
			SQSRegion:   getEnv("AWS_REGION", "ap-south-1"),
			ResendKey:   getEnv("RESEND_API_KEY", ""),
			EmailFrom:   getEnv("NOTIFIER_EMAIL_FROM", ""),
			EmailTo:     getEnv("NOTIFIER_EMAIL_TO", ""),
			WebhookURL:  getEnv("NOTIFIER_WEBHOOK_URL", ""),
		},
		Storage: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
			Retention:     getEnvAsDuration("UPLOAD_RETENTION", 24*time.Hour),
			PurgeSchedule: getEnv("UPLOAD_PURGE_SCHEDULE", "@hourly"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	switch c.Notifier.Type {
	case NotifierLog:
	case NotifierSQS:
		if c.Notifier.SQSQueueURL == "" {
			return errors.New("SQS_QUEUE_URL is required when NOTIFIER_TYPE=sqs")
		}
	case NotifierEmail:
		if c.Notifier.ResendKey == "" || c.Notifier.EmailFrom == "" || c.Notifier.EmailTo == "" {
			return errors.New("RESEND_API_KEY, NOTIFIER_EMAIL_FROM and NOTIFIER_EMAIL_TO are required when NOTIFIER_TYPE=email")
		}
	case NotifierWebhook:
		if c.Notifier.WebhookURL == "" {
			return errors.New("NOTIFIER_WEBHOOK_URL is required when NOTIFIER_TYPE=webhook")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_TYPE %q", c.Notifier.Type)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("SERVER_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
