package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port          string
	Environment   string
	LogLevel      string
	PublicBaseURL string

	// Database
	DatabaseURL       string
	MigrationsEnabled bool

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Storage
	StoragePath string
	MaxUploadMB int

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email: Resend is preferred, SMTP is the fallback provider
	ResendAPIKey    string
	FromEmail       string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	DealershipEmail string

	// Events
	KafkaBrokers     []string
	KafkaTopicPrefix string

	// Ad copy generator (OpenAI compatible chat completions endpoint)
	AdCopyAPIURL string
	AdCopyAPIKey string
	AdCopyModel  string

	// Documents
	WkhtmltopdfPath string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables (and .env through godotenv autoload).
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		PublicBaseURL:      strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		MigrationsEnabled:  v.GetBool("MIGRATIONS_ENABLED"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
		StoragePath:        v.GetString("STORAGE_PATH"),
		MaxUploadMB:        v.GetInt("MAX_UPLOAD_MB"),
		WorkerCount:        v.GetInt("WORKER_COUNT"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		ResendAPIKey:       v.GetString("RESEND_API_KEY"),
		FromEmail:          v.GetString("FROM_EMAIL"),
		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		SMTPUsername:       v.GetString("SMTP_USERNAME"),
		SMTPPassword:       v.GetString("SMTP_PASSWORD"),
		DealershipEmail:    v.GetString("DEALERSHIP_EMAIL"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopicPrefix:   v.GetString("KAFKA_TOPIC_PREFIX"),
		AdCopyAPIURL:       v.GetString("ADCOPY_API_URL"),
		AdCopyAPIKey:       v.GetString("ADCOPY_API_KEY"),
		AdCopyModel:        v.GetString("ADCOPY_MODEL"),
		WkhtmltopdfPath:    v.GetString("WKHTMLTOPDF_PATH"),
		SentryDSN:          v.GetString("SENTRY_DSN"),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("MIGRATIONS_ENABLED", true)
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("STORAGE_PATH", "./storage")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("WORKER_COUNT", 5)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("FROM_EMAIL", "noreply@autolote.app")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("KAFKA_TOPIC_PREFIX", "dealership")
	v.SetDefault("ADCOPY_API_URL", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("ADCOPY_MODEL", "gpt-4o-mini")
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes is the upload limit for images.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// splitList reads a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
