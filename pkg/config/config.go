package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port      string
	Env       string
	BodyLimit string
}

// JWTConfig holds the key used to verify identity provider tokens
type JWTConfig struct {
	SigningKey string
	Issuer     string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// OpenAIConfig holds the generation provider settings
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// RedisConfig holds the rate limiter backend settings. An empty Host disables rate limiting.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Enabled reports whether a redis host was configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// RateLimitConfig holds the per-user limit applied to AI endpoints
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// NATSConfig holds the event bus settings. An empty URL disables publishing.
type NATSConfig struct {
	URL string
}

// TracingConfig holds OpenTelemetry exporter settings
type TracingConfig struct {
	Endpoint string
	// SampleRatio is the share of new root traces kept, 0 to 1. Incoming sampled
	// parents are always followed.
	SampleRatio float64
}

// QuotaConfig holds plan limits
type QuotaConfig struct {
	FreeGenerationLimit int
}

// AdminConfig holds the operator API key
type AdminConfig struct {
	APIKey string
}

// Config holds all configuration
type Config struct {
	ServiceName   string
	DB            DBConfig
	Server        ServerConfig
	JWT           JWTConfig
	Log           LogConfig
	Metrics       MetricsConfig
	OpenAI        OpenAIConfig
	Redis         RedisConfig
	RateLimit     RateLimitConfig
	NATS          NATSConfig
	Tracing       TracingConfig
	Quota         QuotaConfig
	Admin         AdminConfig
	SeedTemplates bool
}

// devSigningKey is only accepted outside production
const devSigningKey = "defaultsecretkey"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: getEnv("SERVICE_NAME", "rapid-web-ai"),
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "autosite"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", "8080"),
			Env:       getEnv("APP_ENV", "development"),
			BodyLimit: getEnv("SERVER_BODY_LIMIT", "1M"),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", devSigningKey),
			Issuer:     getEnv("JWT_ISSUER", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "autosite"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  firstEnv("OPENAI_API_KEY", "OPENAI_API_KEY_ENV_VAR"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
			Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("AI_RATE_LIMIT_PER_MINUTE", 10),
			BurstSize:         getEnvAsInt("AI_RATE_LIMIT_BURST", 2),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRatio: getEnvAsFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
		Quota: QuotaConfig{
			FreeGenerationLimit: getEnvAsInt("FREE_GENERATION_LIMIT", 3),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		SeedTemplates: getEnvAsBool("SEED_TEMPLATES", false),
	}

	if config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if config.Server.Env == "production" && (config.JWT.SigningKey == "" || config.JWT.SigningKey == devSigningKey) {
		return nil, fmt.Errorf("JWT_SIGNING_KEY is required in production")
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("body_limit", c.Server.BodyLimit),
		zap.String("openai_model", c.OpenAI.Model),
		zap.Duration("openai_timeout", c.OpenAI.Timeout),
		zap.Bool("rate_limit_enabled", c.Redis.Enabled()),
		zap.Bool("events_enabled", c.NATS.URL != ""),
		zap.Bool("tracing_enabled", c.Tracing.Endpoint != ""),
		zap.Float64("trace_sample_ratio", c.Tracing.SampleRatio),
		zap.Int("free_generation_limit", c.Quota.FreeGenerationLimit),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
