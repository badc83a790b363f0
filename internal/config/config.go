package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend modes understood by bootstrap.BuildBackend.
const (
	BackendLocal = "local"
	BackendMock  = "mock"
	BackendHTTP  = "http"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Backend the wizard sessions talk to: "local" (in-process services),
	// "mock" (fixed delays and data) or "http" (remote API at BackendBaseURL).
	BackendMode      string
	BackendBaseURL   string
	MockLatencyScale float64

	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool
	AvailabilityCacheTTL time.Duration

	ClinicTimezone   string
	PractitionerID   string
	PractitionerName string
	SlotTemplate     []string
	ClosedWeekdays   []string

	SessionIdleTimeout time.Duration

	CORSAllowedOrigins    []string
	PractitionerJWTSecret string
	RateLimitRPS          float64
	RateLimitBurst        int

	// EmailProvider selects the confirmation sender: "sendgrid", "ses" or "" (log only).
	EmailProvider       string
	SendGridAPIKey      string
	EmailFromAddress    string
	EmailFromName       string
	EmailReplyTo        string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables, after merging a .env
// file from the working directory when one exists.
func Load() *Config {
	_ = loadDotEnv(".env")

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		BackendMode:      strings.ToLower(strings.TrimSpace(getEnv("BACKEND_MODE", BackendLocal))),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:3000/api"),
		MockLatencyScale: getEnvAsFloat("MOCK_LATENCY_SCALE", 1),

		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		AvailabilityCacheTTL: getEnvAsDuration("AVAILABILITY_CACHE_TTL", 2*time.Minute),

		ClinicTimezone:   getEnv("CLINIC_TIMEZONE", "Asia/Kolkata"),
		PractitionerID:   getEnv("PRACTITIONER_ID", "dr-sharma"),
		PractitionerName: getEnv("PRACTITIONER_NAME", "Dr. Sharma"),
		SlotTemplate:     getEnvAsList("SLOT_TEMPLATE", []string{"09:00", "10:30", "14:00", "15:30", "16:45"}),
		ClosedWeekdays:   getEnvAsList("CLOSED_WEEKDAYS", nil),

		SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),

		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		PractitionerJWTSecret: getEnv("PRACTITIONER_JWT_SECRET", ""),
		RateLimitRPS:          getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 20),

		EmailProvider:       strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Soujanya Ayurveda"),
		EmailReplyTo:        getEnv("EMAIL_REPLY_TO", ""),
		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// loadDotEnv merges the given files into the environment without overriding
// variables that are already set. Missing files are not an error.
func loadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
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

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
