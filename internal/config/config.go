package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// DefaultTimezone is the calendar operating hours are read in.
const DefaultTimezone = "Asia/Jakarta"

// Config holds all server configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	AutoMigrate       bool
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	Location          *time.Location
	LogLevel          string
	OperatorAPIKey    string
}

// ClientConfig configures the booking CLI.
type ClientConfig struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	Location *time.Location
	LogLevel string
}

// Load loads server configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error

	// Apply embedded migrations on startup (default: true)
	cfg.AutoMigrate, err = getEnvAsBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.Location, err = getEnvAsLocation("BOOKING_TIMEZONE", DefaultTimezone)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Shared key for the operator status endpoint (default: empty, endpoint disabled)
	cfg.OperatorAPIKey = getEnv("OPERATOR_API_KEY", "")

	return cfg, nil
}

// LoadClient loads the booking CLI configuration.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{
		BaseURL:  getEnv("API_BASE_URL", "http://localhost:8080/v1"),
		Token:    getEnv("API_TOKEN", ""),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}

	var err error

	// No client-side deadline beyond the transport's own timeout.
	cfg.Timeout, err = getEnvAsDuration("API_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.Location, err = getEnvAsLocation("BOOKING_TIMEZONE", DefaultTimezone)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}

	return val, nil
}

func getEnvAsLocation(key, defaultValue string) (*time.Location, error) {
	name := getEnv(key, "")
	if name == "" {
		name = defaultValue
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return loc, nil
}
