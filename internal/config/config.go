package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	UploadMaxSize  int64
	CORSOrigins    []string
	RateLimit      int
	RateLimitEvery time.Duration

	// Emotion classifier service
	MLServiceURL     string
	MLFallbackURL    string
	MLPredictTimeout time.Duration
	MLHealthTimeout  time.Duration
	MLRetryAttempts  int
	MLRetryBackoff   time.Duration

	// Caregiver auth
	JWTSecret string
	TokenTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Email (Amazon SES)
	SESFromEmail string
	SESFromName  string
	AWSRegion    string
	AppBaseURL   string
	EmailDebug   bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; real
// environment variables always win over values from the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "3001"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./calmpath.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		UploadMaxSize:  getEnvInt64("UPLOAD_MAX_SIZE", 5*1024*1024), // 5MB
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),
		RateLimit:      getEnvInt("RATE_LIMIT", 20),
		RateLimitEvery: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		MLServiceURL:     getEnv("ML_SERVICE_URL", "http://127.0.0.1:5000"),
		MLFallbackURL:    getEnv("ML_FALLBACK_URL", "http://localhost:5000"),
		MLPredictTimeout: getEnvDuration("ML_PREDICT_TIMEOUT", 45*time.Second),
		MLHealthTimeout:  getEnvDuration("ML_HEALTH_TIMEOUT", 5*time.Second),
		MLRetryAttempts:  getEnvInt("ML_RETRY_ATTEMPTS", 2),
		MLRetryBackoff:   getEnvDuration("ML_RETRY_BACKOFF", 500*time.Millisecond),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 30*24*time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "CalmPath"),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailDebug:   getEnvBool("EMAIL_DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
