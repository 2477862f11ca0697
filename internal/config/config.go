package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	Log         LogConfig
	OpenAI      OpenAIConfig
	RateLimit   RateLimitConfig
	Storage     StorageConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=text json"`
}

// OpenAIConfig holds completion provider configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string `validate:"required"`
	BaseURL string `validate:"omitempty,url"`
}

// RateLimitConfig holds local server rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gt=0"`
	Burst             int     `validate:"gt=0"`
}

// StorageConfig holds artifact storage configuration
type StorageConfig struct {
	Type       string `validate:"omitempty,oneof=local s3"` // "", "local" or "s3"
	LocalPath  string `validate:"required_if=Type local"`
	S3Bucket   string `validate:"required_if=Type s3"`
	S3Region   string
	S3Endpoint string `validate:"omitempty,url"`
	S3Prefix   string

	// Optional static credentials; the default AWS chain is used when empty
	S3AccessKeyID     string `validate:"required_with=S3SecretAccessKey"`
	S3SecretAccessKey string `validate:"required_with=S3AccessKeyID"`
}

// SetDefaults registers the default value of every configuration key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("STORAGE_LOCAL_PATH", "./data/artifacts")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "functions")
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return FromViper(viper.GetViper())
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	SetDefaults(v)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Storage: StorageConfig{
			Type:       strings.ToLower(v.GetString("STORAGE_TYPE")),
			LocalPath:  v.GetString("STORAGE_LOCAL_PATH"),
			S3Bucket:   v.GetString("S3_BUCKET"),
			S3Region:   v.GetString("S3_REGION"),
			S3Endpoint: v.GetString("S3_ENDPOINT"),
			S3Prefix:   v.GetString("S3_PREFIX"),

			S3AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RequireOpenAI returns an error when the completion credential is missing
func (c *Config) RequireOpenAI() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// IsDevelopment reports whether the application runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
