package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at process start and passed by reference into the
// token service, the repositories and the router.
type Config struct {
	DatabaseURL   string
	RedisURL      string
	AppPrivateKey string
	ServerPort    string
	Environment   string
	AuditLogPath  string

	// TokenTTL of zero issues tokens without an expiry claim.
	TokenTTL time.Duration

	// PublicDirectoryReads leaves searchRestaurants and getNearbyRestaurants
	// open to anonymous callers. Set PUBLIC_DIRECTORY_READS=false to require a token.
	PublicDirectoryReads bool

	AllowedOrigins     []string
	RestaurantCacheTTL time.Duration

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
}

var (
	ErrMissingPrivateKey  = errors.New("APP_PRIVATE_KEY is not defined")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not defined")
	ErrNoAllowedOrigins   = errors.New("ALLOWED_ORIGINS lists no origin")
)

// Load reads the process configuration. A missing private key or database
// URL is an error; callers treat it as fatal.
func Load() (*Config, error) {
	// .env is optional; containers pass variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	cfg := &Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		AppPrivateKey: os.Getenv("APP_PRIVATE_KEY"),
		ServerPort:    getEnv("SERVER_PORT", ":4005"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AuditLogPath:  getEnv("AUDIT_LOG_PATH", "data/audit.log"),

		TokenTTL:             getEnvAsDuration("TOKEN_TTL", "0s"),
		PublicDirectoryReads: getEnvAsBool("PUBLIC_DIRECTORY_READS", true),
		AllowedOrigins:       parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		RestaurantCacheTTL:   getEnvAsDuration("RESTAURANT_CACHE_TTL", "10m"),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	if c.AppPrivateKey == "" {
		return ErrMissingPrivateKey
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if len(c.AllowedOrigins) == 0 {
		return ErrNoAllowedOrigins
	}
	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %t", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
